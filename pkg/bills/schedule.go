// Package bills expands recurring bill templates into concrete due dates.
// Expansion is a pure function of the template set and the month key, so
// calling it twice for the same inputs always yields the same calendar.
package bills

import (
	"fmt"
	"sort"
	"time"

	"github.com/amielsh/centsible/pkg/models"
)

// Due is one concrete occurrence of a bill within a month.
type Due struct {
	Bill models.Bill `json:"bill"`
	Date time.Time   `json:"date"`
}

// ExpandMonth returns every due date falling inside the given month, sorted
// by date then label. monthKey is YYYY-MM. Templates with an unparseable
// start date are skipped.
func ExpandMonth(templates []models.Bill, monthKey string) ([]Due, error) {
	monthStart, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return nil, fmt.Errorf("invalid month key %q: %w", monthKey, err)
	}
	monthEnd := monthStart.AddDate(0, 1, -1)

	var dues []Due
	for _, bill := range templates {
		start, err := time.Parse("2006-01-02", bill.StartDate)
		if err != nil {
			continue
		}
		for _, date := range occurrences(bill, start, monthStart, monthEnd) {
			dues = append(dues, Due{Bill: bill, Date: date})
		}
	}

	sort.Slice(dues, func(i, j int) bool {
		if !dues[i].Date.Equal(dues[j].Date) {
			return dues[i].Date.Before(dues[j].Date)
		}
		return dues[i].Bill.Label < dues[j].Bill.Label
	})
	return dues, nil
}

func occurrences(bill models.Bill, start, monthStart, monthEnd time.Time) []time.Time {
	switch bill.Cadence {
	case models.CadenceOnce:
		if !start.Before(monthStart) && !start.After(monthEnd) {
			return []time.Time{start}
		}
		return nil

	case models.CadenceWeekly:
		return stepped(start, monthStart, monthEnd, 7)

	case models.CadenceBiweekly:
		return stepped(start, monthStart, monthEnd, 14)

	case models.CadenceMonthly:
		if start.After(monthEnd) {
			return nil
		}
		day := bill.DayOfMonth
		if day <= 0 {
			day = start.Day()
		}
		return []time.Time{dateClamped(monthStart.Year(), monthStart.Month(), day)}

	case models.CadenceYearly:
		if start.Month() != monthStart.Month() || start.After(monthEnd) {
			return nil
		}
		return []time.Time{dateClamped(monthStart.Year(), monthStart.Month(), start.Day())}
	}
	return nil
}

// stepped walks a fixed-interval cadence from the start date and collects
// the hits inside the month.
func stepped(start, monthStart, monthEnd time.Time, stepDays int) []time.Time {
	if start.After(monthEnd) {
		return nil
	}
	cursor := start
	if cursor.Before(monthStart) {
		gap := int(monthStart.Sub(cursor).Hours() / 24)
		steps := (gap + stepDays - 1) / stepDays
		cursor = cursor.AddDate(0, 0, steps*stepDays)
	}

	var out []time.Time
	for !cursor.After(monthEnd) {
		out = append(out, cursor)
		cursor = cursor.AddDate(0, 0, stepDays)
	}
	return out
}

// dateClamped builds a date, pulling the day back to the month's last day
// when the template asks for a day the month doesn't have.
func dateClamped(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
