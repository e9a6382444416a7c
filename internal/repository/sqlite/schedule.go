package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
)

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

const assignmentSelect = `
	SELECT a.id, a.staff_id, a.date, a.shift, a.status, a.created_by,
		a.reject_reason, a.note, a.created_at, a.updated_at, s.full_name
	FROM shift_assignments a
	LEFT JOIN staff s ON s.id = a.staff_id
`

const assignmentOrder = `
	ORDER BY a.date,
		CASE a.shift
			WHEN 'morning' THEN 0 WHEN 'afternoon' THEN 1 WHEN 'evening' THEN 2
			WHEN 'night' THEN 3 ELSE 4
		END,
		a.staff_id`

func scanAssignment(row rowScanner) (schedule.Assignment, error) {
	var (
		a                        schedule.Assignment
		date, shiftType          string
		status, createdBy        string
		rejectReason, note, name sql.NullString
		createdAt, updatedAt     string
	)
	err := row.Scan(&a.ID, &a.StaffID, &date, &shiftType, &status, &createdBy,
		&rejectReason, &note, &createdAt, &updatedAt, &name)
	if err != nil {
		return schedule.Assignment{}, err
	}
	var p columnParser
	a.Date = p.date("date", date)
	a.Shift = shift.Type(shiftType)
	a.Status = schedule.Status(status)
	a.CreatedBy = schedule.Creator(createdBy)
	a.RejectReason = stringPtr(rejectReason)
	a.Note = stringPtr(note)
	a.StaffName = stringPtr(name)
	a.CreatedAt = p.time("created_at", createdAt)
	a.UpdatedAt = p.time("updated_at", updatedAt)
	if p.err != nil {
		return schedule.Assignment{}, p.err
	}
	return a, nil
}

func (r *scheduleRepository) query(ctx context.Context, where string, args ...any) ([]schedule.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, assignmentSelect+where, args...)
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

func (r *scheduleRepository) Create(ctx context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	ts := now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shift_assignments
		(id, staff_id, date, shift, status, created_by, reject_reason, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.StaffID, shift.FormatDate(a.Date), string(a.Shift), string(a.Status), string(a.CreatedBy),
		nullString(a.RejectReason), nullString(a.Note), formatTime(ts), formatTime(ts))
	if err != nil {
		if isUniqueConstraintError(err) {
			return schedule.Assignment{}, schedule.ErrDuplicateAssignment
		}
		return schedule.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	a.CreatedAt = ts
	a.UpdatedAt = a.CreatedAt
	return a, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, assignmentSelect+`WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Assignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

func (r *scheduleRepository) ListByStaffAndDate(ctx context.Context, staffID string, date time.Time) ([]schedule.Assignment, error) {
	return r.query(ctx, `WHERE a.staff_id = ? AND a.date = ?`+assignmentOrder, staffID, shift.FormatDate(date))
}

func (r *scheduleRepository) ListByDate(ctx context.Context, date time.Time, statuses ...schedule.Status) ([]schedule.Assignment, error) {
	where := `WHERE a.date = ?`
	args := []any{shift.FormatDate(date)}
	if len(statuses) > 0 {
		clause, statusArgs := inClause("a.status", statuses)
		where += " AND " + clause
		args = append(args, statusArgs...)
	}
	return r.query(ctx, where+assignmentOrder, args...)
}

func (r *scheduleRepository) List(ctx context.Context, filter schedule.Filter) ([]schedule.Assignment, int64, error) {
	baseWhere := "1 = 1"
	args := []any{}

	if filter.StaffID != nil && *filter.StaffID != "" {
		baseWhere += " AND a.staff_id = ?"
		args = append(args, *filter.StaffID)
	}
	if filter.StartDate != nil {
		baseWhere += " AND a.date >= ?"
		args = append(args, shift.FormatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		baseWhere += " AND a.date <= ?"
		args = append(args, shift.FormatDate(*filter.EndDate))
	}
	if len(filter.Statuses) > 0 {
		clause, statusArgs := inClause("a.status", filter.Statuses)
		baseWhere += " AND " + clause
		args = append(args, statusArgs...)
	}
	if filter.Shift != nil {
		baseWhere += " AND a.shift = ?"
		args = append(args, string(*filter.Shift))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shift_assignments a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	paging, args := pageClause(filter.Page, filter.Limit, args)
	assignments, err := r.query(ctx, `WHERE `+baseWhere+assignmentOrder+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, from []schedule.Status, status schedule.Status, rejectReason *string) (schedule.Assignment, error) {
	if len(from) == 0 {
		return schedule.Assignment{}, fmt.Errorf("%w: no source status", schedule.ErrInvalidTransition)
	}
	cond, condArgs := inClause("status", from)
	args := append([]any{string(status), nullString(rejectReason), formatTime(now()), id}, condArgs...)

	res, err := r.db.ExecContext(ctx, `
		UPDATE shift_assignments
		SET status = ?, reject_reason = COALESCE(?, reject_reason), updated_at = ?
		WHERE id = ? AND `+cond, args...)
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to update assignment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to update assignment status: %w", err)
	}
	if n == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return schedule.Assignment{}, err
		}
		return schedule.Assignment{}, fmt.Errorf("%w: %s to %s", schedule.ErrInvalidTransition, current.Status, status)
	}

	return r.GetByID(ctx, id)
}

func inClause(column string, statuses []schedule.Status) (string, []any) {
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = string(s)
	}
	return column + " IN (" + strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",") + ")", args
}
