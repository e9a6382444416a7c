package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.Repository {
	return &staffRepository{db: db}
}

const staffColumns = `id, full_name, role, is_admin, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(&s.ID, &s.FullName, &s.Role, &s.IsAdmin, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create implements staff.Repository.
func (r *staffRepository) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO staff (id, full_name, role, is_admin, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + staffColumns

	created, err := scanStaff(q.QueryRow(ctx, query, s.ID, s.FullName, s.Role, s.IsAdmin, s.IsActive))
	if err != nil {
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}
	return created, nil
}

// GetByID implements staff.Repository.
func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanStaff(q.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}
	return s, nil
}

// ListActiveByRole implements staff.Repository.
func (r *staffRepository) ListActiveByRole(ctx context.Context, role staff.Role) ([]staff.Staff, error) {
	return r.list(ctx, `WHERE is_active AND role = $1`, role)
}

// ListActive implements staff.Repository.
func (r *staffRepository) ListActive(ctx context.Context) ([]staff.Staff, error) {
	return r.list(ctx, `WHERE is_active`)
}

func (r *staffRepository) list(ctx context.Context, where string, args ...interface{}) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+staffColumns+` FROM staff `+where+` ORDER BY full_name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	members := make([]staff.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		members = append(members, s)
	}
	return members, rows.Err()
}
