// Package memory holds in-memory repository implementations used by the
// service test suites. They honor the same ErrNoRows contract as the
// postgres repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository"
)

// TxManager runs fn without a real transaction; the in-memory stores are
// already atomic per call.
type TxManager struct{}

func (TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*model.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type DoctorProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*model.DoctorProfile
}

func NewDoctorProfileRepository() *DoctorProfileRepository {
	return &DoctorProfileRepository{profiles: make(map[uuid.UUID]*model.DoctorProfile)}
}

func (r *DoctorProfileRepository) Create(ctx context.Context, profile *model.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

func (r *DoctorProfileRepository) Get(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (r *DoctorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *DoctorProfileRepository) GetByLicense(ctx context.Context, licenseNumber string) (*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.LicenseNumber == licenseNumber {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (r *DoctorProfileRepository) List(ctx context.Context) ([]*model.DoctorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.DoctorProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *DoctorProfileRepository) Update(ctx context.Context, profile *model.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return repository.ErrNoRows
	}
	profile.UpdatedAt = time.Now()
	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

func (r *DoctorProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.profiles, id)
	return nil
}

type TimeSlotRepository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*model.TimeSlot
}

func NewTimeSlotRepository() *TimeSlotRepository {
	return &TimeSlotRepository{slots: make(map[uuid.UUID]*model.TimeSlot)}
}

func (r *TimeSlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *TimeSlotRepository) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (r *TimeSlotRepository) List(ctx context.Context) ([]*model.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.TimeSlot, 0, len(r.slots))
	for _, s := range r.slots {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TimeSlotRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.TimeSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.TimeSlot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TimeSlotRepository) Update(ctx context.Context, slot *model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return repository.ErrNoRows
	}
	slot.UpdatedAt = time.Now()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *TimeSlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.slots, id)
	return nil
}

type AppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*model.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *AppointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	apt.CreatedAt = now
	apt.UpdatedAt = now
	cp := *apt
	r.appointments[apt.ID] = &cp
	return nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[apt.ID]; !ok {
		return repository.ErrNoRows
	}
	apt.UpdatedAt = time.Now()
	cp := *apt
	r.appointments[apt.ID] = &cp
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.appointments, id)
	return nil
}

func (r *AppointmentRepository) HasOverlap(ctx context.Context, doctorID uuid.UUID, date string, start, end string, excludeID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.appointments {
		if a.ID == excludeID || a.DoctorID != doctorID {
			continue
		}
		if a.Status != model.AppointmentStatusConfirmed {
			continue
		}
		if a.AppointmentDate.Format(model.DateOnly) != date {
			continue
		}
		if a.StartTime < end && a.EndTime > start {
			return true, nil
		}
	}
	return false, nil
}

type OutboxRepository struct {
	mu     sync.RWMutex
	events []*model.OutboxEvent
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Status = model.OutboxStatusPending
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.OutboxEvent
	for _, e := range r.events {
		if e.Status != model.OutboxStatusPending {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID != id {
			continue
		}
		e.Status = status
		e.ErrorMessage = errMsg
		e.UpdatedAt = time.Now()
		if status == model.OutboxStatusProcessed {
			now := time.Now()
			e.ProcessedAt = &now
		}
		if status == model.OutboxStatusFailed {
			e.RetryCount++
		}
		return nil
	}
	return repository.ErrNoRows
}

func (r *OutboxRepository) DeleteProcessedBefore(ctx context.Context, retentionDays int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var kept []*model.OutboxEvent
	var deleted int64
	for _, e := range r.events {
		if e.Status == model.OutboxStatusProcessed && e.ProcessedAt != nil && e.ProcessedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return deleted, nil
}

// Events returns a snapshot of everything written, for assertions.
func (r *OutboxRepository) Events() []*model.OutboxEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.OutboxEvent, 0, len(r.events))
	for _, e := range r.events {
		cp := *e
		out = append(out, &cp)
	}
	return out
}
