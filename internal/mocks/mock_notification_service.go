package mocks

import "sync"

// MockNotificationService implements domain.NotificationService for
// testing. By default it records what was sent.
type MockNotificationService struct {
	mu     sync.Mutex
	SMS    []string
	Emails []string

	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS records an SMS send
func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SMS = append(m.SMS, to)
	return nil
}

// SendEmail records an email send
func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emails = append(m.Emails, to)
	return nil
}

// EmailCount returns the number of emails recorded
func (m *MockNotificationService) EmailCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Emails)
}
