package service

import (
	"time"

	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/models"
)

// currentMonthWindow returns the first instant of the current calendar month
// through now.
func currentMonthWindow(c clock.Clock) (time.Time, time.Time) {
	now := c.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, now
}

// currentYearWindow returns January 1st of the current year through now.
func currentYearWindow(c clock.Clock) (time.Time, time.Time) {
	now := c.Now()
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	return start, now
}

// budgetWindow is the period window a budget's spend is measured against.
func budgetWindow(c clock.Clock, period models.BudgetPeriod) (time.Time, time.Time) {
	if period == models.BudgetPeriodYearly {
		return currentYearWindow(c)
	}
	return currentMonthWindow(c)
}
