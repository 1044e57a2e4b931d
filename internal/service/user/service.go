package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking-api/internal/model"
	"github.com/medbook/booking-api/internal/repository"
	"github.com/medbook/booking-api/internal/service/event"
	"github.com/medbook/booking-api/pkg/auth"
	apperrors "github.com/medbook/booking-api/pkg/errors"
	"github.com/medbook/booking-api/pkg/security"
)

// Servicer is the user service surface the handler depends on.
type Servicer interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo        repository.UserRepository
	profileRepo repository.DoctorProfileRepository
	aptRepo     repository.AppointmentRepository
	hasher      security.PasswordHasher
	jwtSvc      auth.JWTService
	txm         repository.TxManager
	events      event.Emitter
}

func NewService(
	repo repository.UserRepository,
	profileRepo repository.DoctorProfileRepository,
	aptRepo repository.AppointmentRepository,
	hasher security.PasswordHasher,
	jwtSvc auth.JWTService,
	txm repository.TxManager,
	events event.Emitter,
) *Service {
	return &Service{
		repo:        repo,
		profileRepo: profileRepo,
		aptRepo:     aptRepo,
		hasher:      hasher,
		jwtSvc:      jwtSvc,
		txm:         txm,
		events:      events,
	}
}

// CreateUser is the admin creation path. Patients only enter through
// Signup; PATIENT here is a conflict with that rule.
func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req.Role == model.RolePatient {
		return nil, apperrors.Conflict("patients must register through signup", nil)
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleDoctor {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid role %q", req.Role), nil)
	}
	return s.createUser(ctx, req, req.Role)
}

// Signup self-registers a patient. Any role in the request is ignored.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	return s.createUser(ctx, &model.CreateUserRequest{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	}, model.RolePatient)
}

func (s *Service) createUser(ctx context.Context, req *model.CreateUserRequest, role model.UserRole) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.BadRequest("invalid dateOfBirth", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		DateOfBirth:  dob,
		Address:      req.Address,
		Role:         role,
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return apperrors.Conflict("user with this email already exists", nil)
		} else if !errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if err := s.repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return s.events.Emit(ctx, model.EventUserCreated, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
			"role":    user.Role,
		})
	})
	if err != nil {
		return nil, err
	}

	return user.Sanitize(), nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.Unauthorized(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		User:         user.Sanitize(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("user with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hydrate(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NotFoundf("user with email %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := s.hydrate(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		if err := s.hydrate(ctx, u); err != nil {
			return nil, err
		}
		u.Sanitize()
	}
	return users, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	var user *model.User

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.Get(ctx, id)
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("user with ID %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.Email != nil && *req.Email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, *req.Email)
			if err == nil && existing.ID != id {
				return apperrors.Conflict("user with this email already exists", nil)
			}
			if err != nil && !errors.Is(err, repository.ErrNoRows) {
				return fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = *req.Email
		}

		if req.Password != nil {
			hash, err := s.hasher.Hash(*req.Password)
			if err != nil {
				return apperrors.BadRequest("invalid password", err)
			}
			user.PasswordHash = hash
		}
		if req.FullName != nil {
			user.FullName = *req.FullName
		}
		if req.PhoneNumber != nil {
			user.PhoneNumber = *req.PhoneNumber
		}
		if req.DateOfBirth != nil {
			dob, err := parseDateOfBirth(req.DateOfBirth)
			if err != nil {
				return apperrors.BadRequest("invalid dateOfBirth", err)
			}
			user.DateOfBirth = dob
		}
		if req.Address != nil {
			user.Address = req.Address
		}
		if req.Role != nil {
			user.Role = *req.Role
		}

		return s.repo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user.Sanitize(), nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, id); errors.Is(err, repository.ErrNoRows) {
			return apperrors.NotFoundf("user with ID %s not found", id)
		} else if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return s.events.Emit(ctx, model.EventUserDeleted, map[string]interface{}{
			"user_id": id,
		})
	})
}

// hydrate attaches the doctor profile and appointments the way the read
// endpoints expose them.
func (s *Service) hydrate(ctx context.Context, user *model.User) error {
	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrNoRows) {
		return fmt.Errorf("failed to load doctor profile: %w", err)
	}
	user.DoctorProfile = profile

	appointments, err := s.aptRepo.ListByPatient(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}
	user.Appointments = appointments
	return nil
}

func parseDateOfBirth(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateOnly, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
