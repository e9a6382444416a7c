package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.staff_id, a.date, a.schedule_id, a.time_in, a.time_out,
	a.hours_worked, a.status, a.note, a.created_at, a.updated_at,
	s.full_name`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.StaffID, &att.Date, &att.ScheduleID, &att.TimeIn, &att.TimeOut,
		&att.HoursWorked, &att.Status, &att.Note, &att.CreatedAt, &att.UpdatedAt,
		&att.StaffName,
	)
	return att, err
}

func (a *attendanceRepository) query(ctx context.Context, where string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendances a
		LEFT JOIN staff s ON s.id = a.staff_id
		`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	return attendances, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		newAttendance.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendances (
			id, staff_id, date, schedule_id, time_in, time_out, hours_worked, status, note
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.StaffID,
		newAttendance.Date,
		newAttendance.ScheduleID,
		newAttendance.TimeIn,
		newAttendance.TimeOut,
		newAttendance.HoursWorked,
		newAttendance.Status,
		newAttendance.Note,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// CreateAbsences implements attendance.AttendanceRepository. Records that
// collide with an existing (staff, date) row are skipped.
func (a *attendanceRepository) CreateAbsences(ctx context.Context, records []attendance.Attendance) ([]attendance.Attendance, error) {
	created := make([]attendance.Attendance, 0, len(records))

	err := WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, a.db)

		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.Must(uuid.NewV7()).String()
			}
			err := q.QueryRow(txCtx, `
				INSERT INTO attendances (id, staff_id, date, schedule_id, hours_worked, status, note)
				VALUES ($1, $2, $3, $4, 0, $5, $6)
				ON CONFLICT (staff_id, date) DO NOTHING
				RETURNING created_at, updated_at
			`, rec.ID, rec.StaffID, rec.Date, rec.ScheduleID, rec.Status, rec.Note).Scan(&rec.CreatedAt, &rec.UpdatedAt)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to insert absence for staff %s: %w", rec.StaffID, err)
			}
			created = append(created, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendances a
		LEFT JOIN staff s ON s.id = a.staff_id
		WHERE a.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByStaffAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendances a
		LEFT JOIN staff s ON s.id = a.staff_id
		WHERE a.staff_id = $1 AND a.date = $2
	`, staffID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	err := q.QueryRow(ctx, `
		UPDATE attendances
		SET schedule_id = $2,
			time_in = $3,
			time_out = $4,
			hours_worked = $5,
			status = $6,
			note = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, att.ID, att.ScheduleID, att.TimeIn, att.TimeOut, att.HoursWorked, att.Status, att.Note,
	).Scan(&att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

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
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	paging, args := pageClause(filter.Page, filter.Limit, argIdx, args)
	records, err := a.query(ctx, `WHERE `+baseWhere+` ORDER BY a.date DESC, a.staff_id`+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpen(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	return a.query(ctx, `
		WHERE a.date <= $1 AND a.time_in IS NOT NULL AND a.time_out IS NULL
		ORDER BY a.date, a.staff_id
	`, date)
}
