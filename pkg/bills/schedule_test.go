package bills

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amielsh/centsible/pkg/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandMonthInvalidKey(t *testing.T) {
	_, err := ExpandMonth(nil, "February 2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month key")
}

func TestExpandMonthOnce(t *testing.T) {
	bill := models.Bill{ID: "b1", Label: "Annual fee", Cadence: models.CadenceOnce, StartDate: "2025-03-15"}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-03")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, day(2025, time.March, 15), dues[0].Date)

	dues, err = ExpandMonth([]models.Bill{bill}, "2025-04")
	require.NoError(t, err)
	assert.Empty(t, dues)
}

func TestExpandMonthMonthlyClampsDay(t *testing.T) {
	bill := models.Bill{ID: "b1", Label: "Rent", Cadence: models.CadenceMonthly, StartDate: "2025-01-31", DayOfMonth: 31}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-02")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, day(2025, time.February, 28), dues[0].Date)

	dues, err = ExpandMonth([]models.Bill{bill}, "2025-04")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, day(2025, time.April, 30), dues[0].Date)
}

func TestExpandMonthMonthlyDefaultsToStartDay(t *testing.T) {
	bill := models.Bill{ID: "b1", Label: "Gym", Cadence: models.CadenceMonthly, StartDate: "2025-01-12"}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-05")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, day(2025, time.May, 12), dues[0].Date)
}

func TestExpandMonthMonthlyBeforeStart(t *testing.T) {
	bill := models.Bill{ID: "b1", Label: "Gym", Cadence: models.CadenceMonthly, StartDate: "2025-06-01"}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-05")
	require.NoError(t, err)
	assert.Empty(t, dues)
}

func TestExpandMonthBiweeklySteps(t *testing.T) {
	// Paychecks every 14 days from a Friday in late December.
	bill := models.Bill{ID: "b1", Label: "Paycheck", Kind: models.BillIncome, Cadence: models.CadenceBiweekly, StartDate: "2024-12-27"}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-01")
	require.NoError(t, err)
	require.Len(t, dues, 2)
	assert.Equal(t, day(2025, time.January, 10), dues[0].Date)
	assert.Equal(t, day(2025, time.January, 24), dues[1].Date)
}

func TestExpandMonthWeeklySteps(t *testing.T) {
	bill := models.Bill{ID: "b1", Label: "Cleaner", Cadence: models.CadenceWeekly, StartDate: "2025-02-03"}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-02")
	require.NoError(t, err)
	require.Len(t, dues, 4)
	assert.Equal(t, day(2025, time.February, 3), dues[0].Date)
	assert.Equal(t, day(2025, time.February, 24), dues[3].Date)
}

func TestExpandMonthYearly(t *testing.T) {
	bill := models.Bill{ID: "b1", Label: "Insurance", Cadence: models.CadenceYearly, StartDate: "2023-08-20"}

	dues, err := ExpandMonth([]models.Bill{bill}, "2025-08")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, day(2025, time.August, 20), dues[0].Date)

	dues, err = ExpandMonth([]models.Bill{bill}, "2025-09")
	require.NoError(t, err)
	assert.Empty(t, dues)
}

func TestExpandMonthSkipsBadStartDates(t *testing.T) {
	templates := []models.Bill{
		{ID: "bad", Label: "Broken", Cadence: models.CadenceMonthly, StartDate: "whenever"},
		{ID: "ok", Label: "Rent", Cadence: models.CadenceMonthly, StartDate: "2025-01-01"},
	}

	dues, err := ExpandMonth(templates, "2025-02")
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Equal(t, "ok", dues[0].Bill.ID)
}

func TestExpandMonthSortsByDateThenLabel(t *testing.T) {
	templates := []models.Bill{
		{ID: "b", Label: "Water", Cadence: models.CadenceMonthly, StartDate: "2025-01-05"},
		{ID: "a", Label: "Electric", Cadence: models.CadenceMonthly, StartDate: "2025-01-05"},
		{ID: "c", Label: "Rent", Cadence: models.CadenceMonthly, StartDate: "2025-01-01"},
	}

	dues, err := ExpandMonth(templates, "2025-02")
	require.NoError(t, err)
	require.Len(t, dues, 3)
	assert.Equal(t, "Rent", dues[0].Bill.Label)
	assert.Equal(t, "Electric", dues[1].Bill.Label)
	assert.Equal(t, "Water", dues[2].Bill.Label)
}

func TestExpandMonthIsDeterministic(t *testing.T) {
	templates := []models.Bill{
		{ID: "b1", Label: "Paycheck", Cadence: models.CadenceBiweekly, StartDate: "2024-12-27"},
		{ID: "b2", Label: "Rent", Cadence: models.CadenceMonthly, StartDate: "2025-01-01"},
	}

	first, err := ExpandMonth(templates, "2025-01")
	require.NoError(t, err)
	second, err := ExpandMonth(templates, "2025-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
