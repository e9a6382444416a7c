package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shift-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payPeriodColumns = `
	p.id, p.staff_id, p.period_month, p.period_year, p.total_hours,
	p.worked_days, p.late_days, p.absent_days, p.created_at, p.updated_at,
	s.full_name`

func scanPayPeriod(row pgx.Row) (payroll.PayPeriod, error) {
	var p payroll.PayPeriod
	err := row.Scan(
		&p.ID, &p.StaffID, &p.PeriodMonth, &p.PeriodYear, &p.TotalHours,
		&p.WorkedDays, &p.LateDays, &p.AbsentDays, &p.CreatedAt, &p.UpdatedAt,
		&p.StaffName,
	)
	return p, err
}

func (r *payrollRepository) UpsertPeriod(ctx context.Context, period payroll.PayPeriod) (payroll.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_periods (
			id, staff_id, period_month, period_year, total_hours,
			worked_days, late_days, absent_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (staff_id, period_month, period_year) DO UPDATE SET
			total_hours = EXCLUDED.total_hours,
			worked_days = EXCLUDED.worked_days,
			late_days = EXCLUDED.late_days,
			absent_days = EXCLUDED.absent_days,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(), period.StaffID, period.PeriodMonth, period.PeriodYear, period.TotalHours,
		period.WorkedDays, period.LateDays, period.AbsentDays,
	).Scan(&period.ID, &period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		return payroll.PayPeriod{}, fmt.Errorf("failed to upsert pay period: %w", err)
	}

	return period, nil
}

func (r *payrollRepository) GetPeriod(ctx context.Context, staffID string, month, year int) (payroll.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayPeriod(q.QueryRow(ctx, `
		SELECT `+payPeriodColumns+`
		FROM pay_periods p
		LEFT JOIN staff s ON s.id = p.staff_id
		WHERE p.staff_id = $1 AND p.period_month = $2 AND p.period_year = $3
	`, staffID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayPeriod{}, payroll.ErrPayPeriodNotFound
		}
		return payroll.PayPeriod{}, fmt.Errorf("failed to get pay period: %w", err)
	}
	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context, month, year int) ([]payroll.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+payPeriodColumns+`
		FROM pay_periods p
		LEFT JOIN staff s ON s.id = p.staff_id
		WHERE p.period_month = $1 AND p.period_year = $2
		ORDER BY s.full_name, p.staff_id
	`, month, year)
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
