package doctorprofile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository"
	apperrors "github.com/medbook/booking-api/pkg/errors"
)

const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
)

// Servicer is the doctor profile service surface the handler depends on.
type Servicer interface {
	CreateProfile(ctx context.Context, req *model.CreateDoctorProfileRequest) (*model.DoctorProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	ListProfiles(ctx context.Context) ([]*model.DoctorProfile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo     repository.DoctorProfileRepository
	userRepo repository.UserRepository
	slotRepo repository.TimeSlotRepository
	aptRepo  repository.AppointmentRepository
	txm      repository.TxManager
	cache    *gocache.Cache
}

func NewService(
	repo repository.DoctorProfileRepository,
	userRepo repository.UserRepository,
	slotRepo repository.TimeSlotRepository,
	aptRepo repository.AppointmentRepository,
	txm repository.TxManager,
) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		slotRepo: slotRepo,
		aptRepo:  aptRepo,
		txm:      txm,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) CreateProfile(ctx context.Context, req *model.CreateDoctorProfileRequest) (*model.DoctorProfile, error) {
	profile := &model.DoctorProfile{
		Base:            model.Base{ID: uuid.New()},
		UserID:          req.UserID,
		Specialization:  req.Specialization,
		Qualifications:  req.Qualifications,
		Experience:      req.Experience,
		ConsultationFee: req.ConsultationFee,
		Bio:             req.Bio,
		LicenseNumber:   req.LicenseNumber,
	}

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.Get(ctx, req.UserID); errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("user with ID %s not found", req.UserID)
		} else if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if _, err := s.repo.GetByUserID(ctx, req.UserID); err == nil {
			return apperrors.Conflict("user already has a doctor profile", nil)
		} else if !errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("failed to check existing profile: %w", err)
		}

		if _, err := s.repo.GetByLicense(ctx, req.LicenseNumber); err == nil {
			return apperrors.Conflict("license number already exists", nil)
		} else if !errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("failed to check license number: %w", err)
		}

		return s.repo.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Flush()
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*model.DoctorProfile, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cloneProfile(cached.(*model.DoctorProfile)), nil
	}

	profile, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("doctor profile with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}

	if err := s.hydrate(ctx, profile); err != nil {
		return nil, err
	}

	s.cache.Set(id.String(), cloneProfile(profile), gocache.DefaultExpiration)
	return profile, nil
}

func (s *Service) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("doctor profile for user %s not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor profile by user: %w", err)
	}

	if err := s.hydrate(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]*model.DoctorProfile, error) {
	const listKey = "profiles:all"
	if cached, ok := s.cache.Get(listKey); ok {
		return cloneProfiles(cached.([]*model.DoctorProfile)), nil
	}

	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor profiles: %w", err)
	}

	for _, p := range profiles {
		if err := s.hydrate(ctx, p); err != nil {
			return nil, err
		}
	}

	s.cache.Set(listKey, cloneProfiles(profiles), gocache.DefaultExpiration)
	return profiles, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error) {
	var profile *model.DoctorProfile

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.repo.Get(ctx, id)
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("doctor profile with ID %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get doctor profile: %w", err)
		}

		if req.LicenseNumber != nil && *req.LicenseNumber != profile.LicenseNumber {
			existing, err := s.repo.GetByLicense(ctx, *req.LicenseNumber)
			if err == nil && existing.ID != id {
				return apperrors.Conflict("license number already exists", nil)
			}
			if err != nil && !errors.Is(err, repository.ErrNoRows) {
				return fmt.Errorf("failed to check license number: %w", err)
			}
			profile.LicenseNumber = *req.LicenseNumber
		}

		if req.Specialization != nil {
			profile.Specialization = *req.Specialization
		}
		if req.Qualifications != nil {
			profile.Qualifications = *req.Qualifications
		}
		if req.Experience != nil {
			profile.Experience = *req.Experience
		}
		if req.ConsultationFee != nil {
			profile.ConsultationFee = *req.ConsultationFee
		}
		if req.Bio != nil {
			profile.Bio = req.Bio
		}

		return s.repo.Update(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Flush()
	return profile, nil
}

// DeleteProfile removes the profile only. Time slots and appointments are
// left to the database's referential rules, matching the write-time-only
// invariant model.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, id); errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("doctor profile with ID %s not found", id)
		} else if err != nil {
			return fmt.Errorf("failed to get doctor profile: %w", err)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

// cloneProfile copies a profile and its hydrated relations. Cached entries
// and the values handed to callers never share memory, so mutating a
// returned profile cannot corrupt later reads.
func cloneProfile(p *model.DoctorProfile) *model.DoctorProfile {
	cp := *p
	if p.Bio != nil {
		bio := *p.Bio
		cp.Bio = &bio
	}
	if p.User != nil {
		u := *p.User
		cp.User = &u
	}
	if p.TimeSlots != nil {
		cp.TimeSlots = make([]*model.TimeSlot, len(p.TimeSlots))
		for i, slot := range p.TimeSlots {
			s := *slot
			cp.TimeSlots[i] = &s
		}
	}
	if p.Appointments != nil {
		cp.Appointments = make([]*model.Appointment, len(p.Appointments))
		for i, apt := range p.Appointments {
			a := *apt
			cp.Appointments[i] = &a
		}
	}
	return &cp
}

func cloneProfiles(profiles []*model.DoctorProfile) []*model.DoctorProfile {
	out := make([]*model.DoctorProfile, len(profiles))
	for i, p := range profiles {
		out[i] = cloneProfile(p)
	}
	return out
}

func (s *Service) hydrate(ctx context.Context, profile *model.DoctorProfile) error {
	user, err := s.userRepo.Get(ctx, profile.UserID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return fmt.Errorf("failed to load profile user: %w", err)
	}
	if user != nil {
		profile.User = user.Sanitize()
	}

	slots, err := s.slotRepo.ListByDoctor(ctx, profile.ID)
	if err != nil {
		return fmt.Errorf("failed to load time slots: %w", err)
	}
	profile.TimeSlots = slots

	appointments, err := s.aptRepo.ListByDoctor(ctx, profile.ID)
	if err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}
	profile.Appointments = appointments
	return nil
}
