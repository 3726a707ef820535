package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// MFADeviceRepositoryImpl implements domain.MFADeviceRepository with an
// in-memory store.
type MFADeviceRepositoryImpl struct {
	mu     sync.RWMutex
	byID   map[string]*domain.MFADevice
	byUser map[string][]string
}

// NewMFADeviceRepository creates a new in-memory MFA device repository
func NewMFADeviceRepository() domain.MFADeviceRepository {
	return &MFADeviceRepositoryImpl{
		byID:   make(map[string]*domain.MFADevice),
		byUser: make(map[string][]string),
	}
}

// Create implements domain.MFADeviceRepository
func (r *MFADeviceRepositoryImpl) Create(ctx context.Context, device *domain.MFADevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	r.byID[device.ID] = cloneDevice(device)
	r.byUser[device.UserID] = append(r.byUser[device.UserID], device.ID)
	return nil
}

// FindByID implements domain.MFADeviceRepository
func (r *MFADeviceRepositoryImpl) FindByID(ctx context.Context, deviceID string) (*domain.MFADevice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, ok := r.byID[deviceID]
	if !ok {
		return nil, domain.ErrMFADeviceNotFound
	}
	return cloneDevice(device), nil
}

// FindByUser implements domain.MFADeviceRepository. Devices are returned
// in enrollment order.
func (r *MFADeviceRepositoryImpl) FindByUser(ctx context.Context, userID string) ([]*domain.MFADevice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	devices := make([]*domain.MFADevice, 0, len(ids))
	for _, id := range ids {
		devices = append(devices, cloneDevice(r.byID[id]))
	}
	return devices, nil
}

// Update implements domain.MFADeviceRepository
func (r *MFADeviceRepositoryImpl) Update(ctx context.Context, device *domain.MFADevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[device.ID]; !ok {
		return domain.ErrMFADeviceNotFound
	}
	r.byID[device.ID] = cloneDevice(device)
	return nil
}

func cloneDevice(d *domain.MFADevice) *domain.MFADevice {
	cp := *d
	cp.BackupCodes = make([]domain.BackupCode, len(d.BackupCodes))
	for i, code := range d.BackupCodes {
		cp.BackupCodes[i] = code
		if code.UsedAt != nil {
			t := *code.UsedAt
			cp.BackupCodes[i].UsedAt = &t
		}
	}
	return &cp
}
