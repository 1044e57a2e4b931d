package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/medbook/booking-api/internal/config"
	"github.com/medbook/booking-api/internal/repository"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type txKey struct{}

// q returns the transaction bound to ctx, or the shared pool.
func (b baseRepository) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return b.db
}

type baseRepository struct {
	db *sqlx.DB
}

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) repository.TxManager {
	return &txManager{db: db}
}

// WithinTx begins a transaction, stores it in ctx for repository calls made
// inside fn, and commits or rolls back based on fn's error.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type userRepository struct {
	baseRepository
}

type doctorProfileRepository struct {
	baseRepository
}

type timeSlotRepository struct {
	baseRepository
}

type appointmentRepository struct {
	baseRepository
}

type outboxRepository struct {
	baseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{baseRepository{db: db}}
}

func NewDoctorProfileRepository(db *sqlx.DB) repository.DoctorProfileRepository {
	return &doctorProfileRepository{baseRepository{db: db}}
}

func NewTimeSlotRepository(db *sqlx.DB) repository.TimeSlotRepository {
	return &timeSlotRepository{baseRepository{db: db}}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{baseRepository{db: db}}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{baseRepository{db: db}}
}
