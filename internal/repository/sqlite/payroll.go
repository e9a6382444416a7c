package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *sql.DB
}

func NewPayrollRepository(db *sql.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payPeriodSelect = `
	SELECT p.id, p.staff_id, p.period_month, p.period_year, p.total_hours,
		p.worked_days, p.late_days, p.absent_days, p.created_at, p.updated_at, s.full_name
	FROM pay_periods p
	LEFT JOIN staff s ON s.id = p.staff_id
`

func scanPayPeriod(row rowScanner) (payroll.PayPeriod, error) {
	var (
		p                    payroll.PayPeriod
		totalHours           string
		createdAt, updatedAt string
		name                 sql.NullString
	)
	err := row.Scan(&p.ID, &p.StaffID, &p.PeriodMonth, &p.PeriodYear, &totalHours,
		&p.WorkedDays, &p.LateDays, &p.AbsentDays, &createdAt, &updatedAt, &name)
	if err != nil {
		return payroll.PayPeriod{}, err
	}
	p.TotalHours, err = decimal.NewFromString(totalHours)
	if err != nil {
		return payroll.PayPeriod{}, fmt.Errorf("invalid total_hours %q: %w", totalHours, err)
	}
	p.StaffName = stringPtr(name)
	var cp columnParser
	p.CreatedAt = cp.time("created_at", createdAt)
	p.UpdatedAt = cp.time("updated_at", updatedAt)
	if cp.err != nil {
		return payroll.PayPeriod{}, cp.err
	}
	return p, nil
}

func (r *payrollRepository) UpsertPeriod(ctx context.Context, period payroll.PayPeriod) (payroll.PayPeriod, error) {
	ts := now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pay_periods
		(id, staff_id, period_month, period_year, total_hours, worked_days, late_days, absent_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (staff_id, period_month, period_year) DO UPDATE SET
			total_hours = excluded.total_hours,
			worked_days = excluded.worked_days,
			late_days = excluded.late_days,
			absent_days = excluded.absent_days,
			updated_at = excluded.updated_at
	`, newID(), period.StaffID, period.PeriodMonth, period.PeriodYear, period.TotalHours.StringFixed(2),
		period.WorkedDays, period.LateDays, period.AbsentDays, formatTime(ts), formatTime(ts))
	if err != nil {
		return payroll.PayPeriod{}, fmt.Errorf("failed to upsert pay period: %w", err)
	}

	return r.GetPeriod(ctx, period.StaffID, period.PeriodMonth, period.PeriodYear)
}

func (r *payrollRepository) GetPeriod(ctx context.Context, staffID string, month, year int) (payroll.PayPeriod, error) {
	p, err := scanPayPeriod(r.db.QueryRowContext(ctx,
		payPeriodSelect+`WHERE p.staff_id = ? AND p.period_month = ? AND p.period_year = ?`,
		staffID, month, year))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPayPeriodNotFound
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to get pay period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context, month, year int) ([]payroll.PayPeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		payPeriodSelect+`WHERE p.period_month = ? AND p.period_year = ? ORDER BY s.full_name, p.staff_id`,
		month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay periods: %w", err)
	}
	defer rows.Close()

	periods := make([]payroll.PayPeriod, 0)
	for rows.Next() {
		p, err := scanPayPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
