package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestAgeCalculation tests the age calculation function with various scenarios
func TestAgeCalculation(t *testing.T) {
	tests := []struct {
		name        string
		birthDate   time.Time
		atDate      time.Time
		expectedAge int
	}{
		{"Same month and day", date(1965, 2, 25), date(2025, 2, 25), 60},
		{"Day before birthday", date(1965, 2, 25), date(2025, 2, 24), 59},
		{"Day after birthday", date(1965, 2, 25), date(2025, 2, 26), 60},
		{"Month before birthday", date(1965, 2, 25), date(2025, 1, 25), 59},
		{"Leap year birth, non-leap year check", date(1964, 2, 29), date(2025, 2, 28), 60},
		{"Leap year birth, leap year check", date(1964, 2, 29), date(2024, 2, 29), 60},
		{"Newborn", date(2025, 6, 1), date(2025, 6, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedAge, Age(tt.birthDate, tt.atDate))
		})
	}
}

func TestAgeInMonths(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		at    time.Time
		want  int
	}{
		{"Exact half year", date(1966, 1, 14), date(2025, 7, 14), 59*12 + 6},
		{"Day before half year", date(1966, 1, 14), date(2025, 7, 13), 59*12 + 5},
		{"First of month", date(1998, 1, 14), date(2026, 11, 1), 28*12 + 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeInMonths(tt.birth, tt.at))
		})
	}
	assert.True(t, HasReachedAge(date(1966, 1, 14), date(2025, 7, 14), 59, 6))
	assert.False(t, HasReachedAge(date(1966, 1, 14), date(2025, 7, 13), 59, 6))
}

func TestFullRetirementAgeMonths(t *testing.T) {
	tests := []struct {
		birth time.Time
		want  int
	}{
		{date(1937, 6, 1), 65 * 12},
		{date(1940, 6, 1), 65*12 + 6},
		{date(1950, 6, 1), 66 * 12},
		{date(1957, 6, 1), 66*12 + 6},
		{date(1960, 6, 1), 67 * 12},
		{date(1960, 1, 1), 66*12 + 10}, // January 1 counts as the prior year
		{date(1998, 1, 14), 67 * 12},
	}
	for _, tt := range tests {
		t.Run(tt.birth.Format("2006-01-02"), func(t *testing.T) {
			assert.Equal(t, tt.want, FullRetirementAgeMonths(tt.birth))
			assert.Equal(t, tt.want/12, FullRetirementAge(tt.birth))
		})
	}
}

func TestGetRMDAge(t *testing.T) {
	assert.Equal(t, 72, GetRMDAge(1950))
	assert.Equal(t, 73, GetRMDAge(1951))
	assert.Equal(t, 73, GetRMDAge(1959))
	assert.Equal(t, 75, GetRMDAge(1960))
	assert.Equal(t, 75, GetRMDAge(1998))

	assert.False(t, IsRMDYear(date(1952, 5, 1), 2024))
	assert.True(t, IsRMDYear(date(1952, 5, 1), 2025))
}

func TestMedicareEligibility(t *testing.T) {
	assert.False(t, IsMedicareEligible(date(1960, 3, 10), date(2025, 3, 9)))
	assert.True(t, IsMedicareEligible(date(1960, 3, 10), date(2025, 3, 10)))
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, date(2025, 2, 28), AddMonths(date(2025, 1, 31), 1))
	assert.Equal(t, date(2024, 2, 29), AddMonths(date(2024, 1, 31), 1))
	assert.Equal(t, date(2026, 1, 15), AddMonths(date(2025, 11, 15), 2))
}

func TestMonthHelpers(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2025, time.February))
	assert.Equal(t, date(2025, 4, 1), FirstOfMonth(date(2025, 4, 17)))
	assert.Equal(t, date(2025, 4, 30), EndOfMonth(date(2025, 4, 17)))
	assert.Equal(t, 13, MonthsBetween(date(2024, 12, 31), date(2026, 1, 1)))
	assert.Equal(t, 366, DaysInYear(2024))
	assert.True(t, IsBirthdayMonth(date(1990, 8, 3), date(2030, 8, 20)))
}

func TestPeriodicDatesInMonth(t *testing.T) {
	anchor := date(2025, 1, 3) // a Friday

	weekly := PeriodicDatesInMonth(anchor, 7, 2025, time.January)
	assert.Equal(t, []time.Time{date(2025, 1, 3), date(2025, 1, 10), date(2025, 1, 17), date(2025, 1, 24), date(2025, 1, 31)}, weekly)

	biweekly := PeriodicDatesInMonth(anchor, 14, 2025, time.February)
	assert.Equal(t, []time.Time{date(2025, 2, 14), date(2025, 2, 28)}, biweekly)

	// months before the anchor have no pay dates
	assert.Empty(t, PeriodicDatesInMonth(anchor, 7, 2024, time.December))

	// 26 biweekly pay dates across a year that starts on an anchor
	total := 0
	for m := time.January; m <= time.December; m++ {
		total += len(PeriodicDatesInMonth(anchor, 14, 2025, m))
	}
	assert.Equal(t, 26, total)
}
