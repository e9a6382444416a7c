package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
)

type attendanceRepository struct {
	db *sql.DB
}

func NewAttendanceRepository(db *sql.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.staff_id, a.date, a.schedule_id, a.time_in, a.time_out,
		a.hours_worked, a.status, a.note, a.created_at, a.updated_at, s.full_name
	FROM attendances a
	LEFT JOIN staff s ON s.id = a.staff_id
`

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		att                    attendance.Attendance
		date, status           string
		scheduleID, note, name sql.NullString
		timeIn, timeOut        sql.NullString
		createdAt, updatedAt   string
	)
	err := row.Scan(&att.ID, &att.StaffID, &date, &scheduleID, &timeIn, &timeOut,
		&att.HoursWorked, &status, &note, &createdAt, &updatedAt, &name)
	if err != nil {
		return attendance.Attendance{}, err
	}
	var p columnParser
	att.Date = p.date("date", date)
	att.ScheduleID = stringPtr(scheduleID)
	att.TimeIn = p.timePtr("time_in", timeIn)
	att.TimeOut = p.timePtr("time_out", timeOut)
	att.Status = attendance.Status(status)
	att.Note = stringPtr(note)
	att.StaffName = stringPtr(name)
	att.CreatedAt = p.time("created_at", createdAt)
	att.UpdatedAt = p.time("updated_at", updatedAt)
	if p.err != nil {
		return attendance.Attendance{}, p.err
	}
	return att, nil
}

func (r *attendanceRepository) query(ctx context.Context, where string, args ...any) ([]attendance.Attendance, error) {
	rows, err := r.db.QueryContext(ctx, attendanceSelect+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

func insertAttendance(ctx context.Context, db execer, att attendance.Attendance, ts time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO attendances
		(id, staff_id, date, schedule_id, time_in, time_out, hours_worked, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, att.ID, att.StaffID, shift.FormatDate(att.Date), nullString(att.ScheduleID),
		formatTimePtr(att.TimeIn), formatTimePtr(att.TimeOut), att.HoursWorked,
		string(att.Status), nullString(att.Note), formatTime(ts), formatTime(ts))
	return err
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.ID == "" {
		att.ID = newID()
	}
	ts := now()

	if err := insertAttendance(ctx, r.db, att, ts); err != nil {
		if isUniqueConstraintError(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	att.CreatedAt = ts
	att.UpdatedAt = att.CreatedAt
	return att, nil
}

// CreateAbsences writes all non-colliding records in one transaction.
func (r *attendanceRepository) CreateAbsences(ctx context.Context, records []attendance.Attendance) ([]attendance.Attendance, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	created := make([]attendance.Attendance, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = newID()
		}
		if err := insertAttendance(ctx, tx, rec, ts); err != nil {
			if isUniqueConstraintError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to insert absence for staff %s: %w", rec.StaffID, err)
		}
		rec.CreatedAt = ts
		rec.UpdatedAt = rec.CreatedAt
		created = append(created, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit absences: %w", err)
	}
	return created, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, err := scanAttendance(r.db.QueryRowContext(ctx, attendanceSelect+`WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

func (r *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (*attendance.Attendance, error) {
	att, err := scanAttendance(r.db.QueryRowContext(ctx,
		attendanceSelect+`WHERE a.staff_id = ? AND a.date = ?`, staffID, shift.FormatDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendances
		SET schedule_id = ?, time_in = ?, time_out = ?, hours_worked = ?, status = ?, note = ?, updated_at = ?
		WHERE id = ?
	`, nullString(att.ScheduleID), formatTimePtr(att.TimeIn), formatTimePtr(att.TimeOut),
		att.HoursWorked, string(att.Status), nullString(att.Note), formatTime(ts), att.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	att.UpdatedAt = ts
	return att, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
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
	if filter.Status != nil {
		baseWhere += " AND a.status = ?"
		args = append(args, string(*filter.Status))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	paging, args := pageClause(filter.Page, filter.Limit, args)
	records, err := r.query(ctx, `WHERE `+baseWhere+` ORDER BY a.date DESC, a.staff_id`+paging, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *attendanceRepository) ListOpen(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	return r.query(ctx, `
		WHERE a.date <= ? AND a.time_in IS NOT NULL AND a.time_out IS NULL
		ORDER BY a.date, a.staff_id
	`, shift.FormatDate(date))
}
