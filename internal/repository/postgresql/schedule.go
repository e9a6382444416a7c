package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

const assignmentColumns = `
	a.id, a.staff_id, a.date, a.shift, a.status, a.created_by,
	a.reject_reason, a.note, a.created_at, a.updated_at,
	s.full_name`

// Ordered like the shift table so a day reads morning to full_day.
const assignmentOrder = `
	ORDER BY a.date,
		CASE a.shift
			WHEN 'morning' THEN 0 WHEN 'afternoon' THEN 1 WHEN 'evening' THEN 2
			WHEN 'night' THEN 3 ELSE 4
		END,
		a.staff_id`

func scanAssignment(row pgx.Row) (schedule.Assignment, error) {
	var a schedule.Assignment
	err := row.Scan(
		&a.ID, &a.StaffID, &a.Date, &a.Shift, &a.Status, &a.CreatedBy,
		&a.RejectReason, &a.Note, &a.CreatedAt, &a.UpdatedAt,
		&a.StaffName,
	)
	return a, err
}

func (r *scheduleRepository) query(ctx context.Context, where string, args ...interface{}) ([]schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM shift_assignments a
		LEFT JOIN staff s ON s.id = a.staff_id
		`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]schedule.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Create implements schedule.Repository.
func (r *scheduleRepository) Create(ctx context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO shift_assignments (id, staff_id, date, shift, status, created_by, reject_reason, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.StaffID, a.Date, a.Shift, a.Status, a.CreatedBy, a.RejectReason, a.Note,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Assignment{}, schedule.ErrDuplicateAssignment
		}
		return schedule.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return a, nil
}

// GetByID implements schedule.Repository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssignment(q.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM shift_assignments a
		LEFT JOIN staff s ON s.id = a.staff_id
		WHERE a.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Assignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// ListByStaffAndDate implements schedule.Repository.
func (r *scheduleRepository) ListByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]schedule.Assignment, error) {
	return r.query(ctx, `WHERE a.staff_id = $1 AND a.date = $2`+assignmentOrder, staffID, date)
}

// ListByDate implements schedule.Repository.
func (r *scheduleRepository) ListByDate(ctx context.Context, date time.Time, statuses ...schedule.Status) ([]schedule.Assignment, error) {
	if len(statuses) == 0 {
		return r.query(ctx, `WHERE a.date = $1`+assignmentOrder, date)
	}
	return r.query(ctx, `WHERE a.date = $1 AND a.status = ANY($2)`+assignmentOrder, date, statusStrings(statuses))
}

// List implements schedule.Repository.
func (r *scheduleRepository) List(ctx context.Context, filter schedule.Filter) ([]schedule.Assignment, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.StaffID != nil && *filter.StaffID != "" {
		baseWhere += fmt.Sprintf(" AND a.staff_id = $%d", argIdx)
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if len(filter.Statuses) > 0 {
		baseWhere += fmt.Sprintf(" AND a.status = ANY($%d)", argIdx)
		args = append(args, statusStrings(filter.Statuses))
		argIdx++
	}
	if filter.Shift != nil {
		baseWhere += fmt.Sprintf(" AND a.shift = $%d", argIdx)
		args = append(args, *filter.Shift)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_assignments a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	paging, args := pageClause(filter.Page, filter.Limit, argIdx, args)
	assignments, err := r.query(ctx, `WHERE `+baseWhere+assignmentOrder+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// UpdateStatus implements schedule.Repository.
func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, from []schedule.Status, status schedule.Status, rejectReason *string) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE shift_assignments
		SET status = $2,
			reject_reason = COALESCE($3, reject_reason),
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)
	`, id, status, rejectReason, statusStrings(from))
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to update assignment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return schedule.Assignment{}, err
		}
		return schedule.Assignment{}, fmt.Errorf("%w: %s to %s", schedule.ErrInvalidTransition, current.Status, status)
	}

	return r.GetByID(ctx, id)
}

func statusStrings(statuses []schedule.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
