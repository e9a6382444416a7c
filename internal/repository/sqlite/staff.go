package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/staff"
)

type staffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) staff.Repository {
	return &staffRepository{db: db}
}

const staffColumns = `id, full_name, role, is_admin, is_active, created_at, updated_at`

func scanStaff(row rowScanner) (staff.Staff, error) {
	var (
		s                    staff.Staff
		role                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&s.ID, &s.FullName, &role, &s.IsAdmin, &s.IsActive, &createdAt, &updatedAt); err != nil {
		return staff.Staff{}, err
	}
	s.Role = staff.Role(role)
	var p columnParser
	s.CreatedAt = p.time("created_at", createdAt)
	s.UpdatedAt = p.time("updated_at", updatedAt)
	if p.err != nil {
		return staff.Staff{}, p.err
	}
	return s, nil
}

func (r *staffRepository) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	if s.ID == "" {
		s.ID = newID()
	}
	ts := now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff (id, full_name, role, is_admin, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.FullName, string(s.Role), s.IsAdmin, s.IsActive, formatTime(ts), formatTime(ts))
	if err != nil {
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}

	s.CreatedAt = ts
	s.UpdatedAt = s.CreatedAt
	return s, nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	s, err := scanStaff(r.db.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}
	return s, nil
}

func (r *staffRepository) ListActiveByRole(ctx context.Context, role staff.Role) ([]staff.Staff, error) {
	return r.list(ctx, `WHERE is_active = 1 AND role = ?`, string(role))
}

func (r *staffRepository) ListActive(ctx context.Context) ([]staff.Staff, error) {
	return r.list(ctx, `WHERE is_active = 1`)
}

func (r *staffRepository) list(ctx context.Context, where string, args ...any) ([]staff.Staff, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+staffColumns+` FROM staff `+where+` ORDER BY full_name, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
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
