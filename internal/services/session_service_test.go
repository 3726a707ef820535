package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/infrastructure/clock"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/mocks"
)

func newSessionFixture(t *testing.T) (domain.SessionService, domain.SessionRepository, *clock.Fixed, *domain.User) {
	t.Helper()
	clk := &clock.Fixed{Current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	userRepo := repositories.NewUserRepository()
	sessionRepo := repositories.NewSessionRepository()

	user := &domain.User{
		Email:        "user@example.com",
		Username:     "user",
		PasswordHash: "hash",
		Status:       domain.StatusActive,
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	svc := NewSessionService(sessionRepo, userRepo, mocks.NewMockTokenService(), clk, 24*time.Hour)
	return svc, sessionRepo, clk, user
}

func TestSessionServiceImpl_Create(t *testing.T) {
	svc, sessionRepo, clk, user := newSessionFixture(t)
	device := domain.DeviceInfo{Device: "cli", IPAddress: "203.0.113.9"}

	session, err := svc.Create(context.Background(), user, device)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.ID == "" || session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected session with ID and both tokens")
	}
	if !session.Active {
		t.Error("new session must be active")
	}
	if got := session.ExpiresAt; !got.Equal(clk.Current.Add(24 * time.Hour)) {
		t.Errorf("expected expiry %v, got %v", clk.Current.Add(24*time.Hour), got)
	}
	if session.Device != "cli" || session.IPAddress != "203.0.113.9" {
		t.Error("device info not carried onto the session")
	}

	stored, err := sessionRepo.FindByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if stored.RefreshToken != session.RefreshToken {
		t.Error("persisted session differs from returned one")
	}
}

func TestSessionServiceImpl_Validate(t *testing.T) {
	svc, _, clk, user := newSessionFixture(t)

	session, err := svc.Create(context.Background(), user, domain.DeviceInfo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.Advance(time.Minute)
	validated, err := svc.Validate(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validated.ID != session.ID {
		t.Errorf("expected session %s, got %s", session.ID, validated.ID)
	}
	if !validated.LastActivityAt.Equal(clk.Current) {
		t.Error("expected last activity to be bumped")
	}

	if _, err := svc.Validate(context.Background(), "garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for a garbage token, got %v", err)
	}

	clk.Advance(25 * time.Hour)
	if _, err := svc.Validate(context.Background(), session.AccessToken); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired past the deadline, got %v", err)
	}
}

func TestSessionServiceImpl_Validate_LoggedOutSession(t *testing.T) {
	svc, _, _, user := newSessionFixture(t)

	session, err := svc.Create(context.Background(), user, domain.DeviceInfo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Validate(context.Background(), session.AccessToken); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired for a logged-out session, got %v", err)
	}
}

func TestSessionServiceImpl_Refresh_RotatesToken(t *testing.T) {
	svc, _, _, user := newSessionFixture(t)

	first, err := svc.Create(context.Background(), user, domain.DeviceInfo{Device: "cli"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID == first.ID {
		t.Error("refresh must mint a new session")
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh must rotate the refresh token")
	}
	if second.Device != first.Device {
		t.Error("refresh must carry the device info over")
	}

	// The old token is single-use
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired replaying the old token, got %v", err)
	}

	// The old access token no longer validates
	if _, err := svc.Validate(context.Background(), first.AccessToken); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected the old session to be dead, got %v", err)
	}
}

func TestSessionServiceImpl_Refresh_ConcurrentRedeemIsSingleUse(t *testing.T) {
	svc, _, _, user := newSessionFixture(t)

	session, err := svc.Create(context.Background(), user, domain.DeviceInfo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const callers = 8
	start := make(chan struct{})
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Refresh(context.Background(), session.RefreshToken)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else if !errors.Is(err, domain.ErrSessionExpired) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("a refresh token must be redeemable exactly once, got %d successes", successes)
	}
}

func TestSessionServiceImpl_Refresh_UnknownToken(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	if _, err := svc.Refresh(context.Background(), "never-issued"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestSessionServiceImpl_Refresh_ExpiredSession(t *testing.T) {
	svc, _, clk, user := newSessionFixture(t)

	session, err := svc.Create(context.Background(), user, domain.DeviceInfo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.Advance(25 * time.Hour)
	if _, err := svc.Refresh(context.Background(), session.RefreshToken); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionServiceImpl_InvalidateAllForUser(t *testing.T) {
	svc, _, _, user := newSessionFixture(t)

	var sessions []*domain.Session
	for i := 0; i < 3; i++ {
		s, err := svc.Create(context.Background(), user, domain.DeviceInfo{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sessions = append(sessions, s)
	}

	if err := svc.InvalidateAllForUser(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range sessions {
		if _, err := svc.Validate(context.Background(), s.AccessToken); err == nil {
			t.Errorf("session %s still validates after invalidation", s.ID)
		}
	}
}

func TestSessionServiceImpl_Logout_Idempotent(t *testing.T) {
	svc, _, _, user := newSessionFixture(t)

	session, err := svc.Create(context.Background(), user, domain.DeviceInfo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("second logout must be a no-op, got %v", err)
	}
	if err := svc.Logout(context.Background(), "no-such-session"); err != nil {
		t.Fatalf("logout of an unknown session must be a no-op, got %v", err)
	}
}
