package payroll

import "errors"

var (
	ErrPayPeriodNotFound = errors.New("pay period not found")
	ErrInvalidPeriod     = errors.New("invalid payroll period")
)
