package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the access-level tag on a user.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleDoctor  UserRole = "DOCTOR"
	RolePatient UserRole = "PATIENT"
)

// Valid reports whether the role is one of the three known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User represents a system user. Password is write-only; PasswordHash never
// leaves the persistence layer.
type User struct {
	Base
	Email        string     `json:"email" db:"email"`
	Password     string     `json:"password,omitempty" db:"-"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"fullName" db:"full_name"`
	PhoneNumber  string     `json:"phoneNumber" db:"phone_number"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Address      *string    `json:"address,omitempty" db:"address"`
	Role         UserRole   `json:"role" db:"role"`

	DoctorProfile *DoctorProfile `json:"doctorProfile,omitempty" db:"-"`
	Appointments  []*Appointment `json:"appointments,omitempty" db:"-"`
}

// Sanitize strips credential material before the user is serialized.
func (u *User) Sanitize() *User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

// CreateUserRequest is the admin creation path. PATIENT is rejected here;
// patients only enter through signup.
type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	FullName    string   `json:"fullName" binding:"required"`
	PhoneNumber string   `json:"phoneNumber" binding:"required"`
	DateOfBirth *string  `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Address     *string  `json:"address"`
	Role        UserRole `json:"role" binding:"required,oneof=ADMIN DOCTOR PATIENT"`
}

// SignupRequest self-registers a patient; any supplied role is ignored.
type SignupRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	FullName    string  `json:"fullName" binding:"required"`
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the sanitized user plus the token pair.
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UpdateUserRequest struct {
	Email       *string   `json:"email" binding:"omitempty,email"`
	Password    *string   `json:"password" binding:"omitempty,min=8"`
	FullName    *string   `json:"fullName"`
	PhoneNumber *string   `json:"phoneNumber"`
	DateOfBirth *string   `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Address     *string   `json:"address"`
	Role        *UserRole `json:"role" binding:"omitempty,oneof=ADMIN DOCTOR PATIENT"`
}

// TokenClaims is the subject extracted from a validated token.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}
