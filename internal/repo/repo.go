package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"confreg/internal/model"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// uniqueViolation is the Postgres error code raised when the unique
// constraint on registrations.email rejects a concurrent insert.
const uniqueViolation = pq.ErrorCode("23505")

// sortColumns whitelists the identifiers that may appear in ORDER BY.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
}

type Repository interface {
	CountRegistrations(ctx context.Context, typeFilter string) (int, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	InsertRegistration(ctx context.Context, reg *model.Registration) (int64, error)
	ListRegistrations(ctx context.Context, typeFilter, sortField string, ascending bool) ([]model.Registration, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) CountRegistrations(ctx context.Context, typeFilter string) (int, error) {
	query := `SELECT COUNT(*) FROM registrations`
	args := []any{}
	if typeFilter != "" {
		query += ` WHERE registration_type = $1`
		args = append(args, typeFilter)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	return count, nil
}

// EmailExists treats sql.ErrNoRows as "email available", not as a failure.
// Conflating the two would make every fresh registration fail closed.
func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT id FROM registrations WHERE email = $1`

	var id int64
	err := r.db.QueryRowContext(ctx, query, email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return true, nil
}

func (r *repository) InsertRegistration(ctx context.Context, reg *model.Registration) (int64, error) {
	query := `
		INSERT INTO registrations (name, email, registration_type, company, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		reg.Name, reg.Email, reg.RegistrationType, reg.Company, reg.Phone,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to insert registration: %w", err)
	}

	return id, nil
}

func (r *repository) ListRegistrations(ctx context.Context, typeFilter, sortField string, ascending bool) ([]model.Registration, error) {
	query := `
		SELECT id, name, email, registration_type, company, phone, created_at
		FROM registrations
	`
	args := []any{}
	if typeFilter != "" {
		query += ` WHERE registration_type = $1`
		args = append(args, typeFilter)
	}

	column, ok := sortColumns[sortField]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.Name,
			&reg.Email,
			&reg.RegistrationType,
			&reg.Company,
			&reg.Phone,
			&reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}

	return regs, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	query := `
		SELECT id, name, email, registration_type, company, phone, created_at
		FROM registrations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var reg model.Registration
	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.Email,
		&reg.RegistrationType,
		&reg.Company,
		&reg.Phone,
		&reg.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return &reg, nil
}
