package dateutil

import (
	"time"
)

// MonthsPerYear is the number of calendar months in a year.
const MonthsPerYear = 12

// Age calculates the age in whole years at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeInMonths calculates the age in whole months at a given date
func AgeInMonths(birthDate, atDate time.Time) int {
	months := (atDate.Year()-birthDate.Year())*MonthsPerYear + int(atDate.Month()) - int(birthDate.Month())
	if atDate.Day() < birthDate.Day() {
		months--
	}
	return months
}

// AgeAtYearEnd returns the age attained by December 31 of the given year.
// The IRS uses this age for catch-up eligibility and RMD divisors.
func AgeAtYearEnd(birthDate time.Time, year int) int {
	return year - birthDate.Year()
}

// HasReachedAge reports whether a person born on birthDate is at least years+months old at atDate
func HasReachedAge(birthDate, atDate time.Time, years, months int) bool {
	return AgeInMonths(birthDate, atDate) >= years*MonthsPerYear+months
}

// FullRetirementAgeMonths returns the Social Security Full Retirement Age in months.
// People born on January 1 are treated as born in the prior year.
func FullRetirementAgeMonths(birthDate time.Time) int {
	birthYear := birthDate.Year()
	if birthDate.Month() == time.January && birthDate.Day() == 1 {
		birthYear--
	}

	switch {
	case birthYear <= 1937:
		return 65 * MonthsPerYear
	case birthYear <= 1942:
		return 65*MonthsPerYear + (birthYear-1937)*2
	case birthYear <= 1954:
		return 66 * MonthsPerYear
	case birthYear <= 1959:
		return 66*MonthsPerYear + (birthYear-1954)*2
	default: // 1960 and later
		return 67 * MonthsPerYear
	}
}

// FullRetirementAge calculates the Social Security Full Retirement Age based on birth year,
// rounded down to whole years
func FullRetirementAge(birthDate time.Time) int {
	return FullRetirementAgeMonths(birthDate) / MonthsPerYear
}

// IsMedicareEligible checks if a person is eligible for Medicare (age 65+)
func IsMedicareEligible(birthDate, atDate time.Time) bool {
	return Age(birthDate, atDate) >= 65
}

// GetRMDAge returns the age when RMDs start for a given birth year (SECURE 2.0)
func GetRMDAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear >= 1951 && birthYear <= 1959:
		return 73
	default: // 1960 and later
		return 75
	}
}

// IsRMDYear checks if this is a year when Required Minimum Distributions apply
func IsRMDYear(birthDate time.Time, year int) bool {
	return AgeAtYearEnd(birthDate, year) >= GetRMDAge(birthDate.Year())
}

// MonthsBetween returns the number of calendar month boundaries between two dates.
// The result is negative when to precedes from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*MonthsPerYear + int(to.Month()) - int(from.Month())
}

// IsBirthdayMonth reports whether atDate falls in the birth month of birthDate
func IsBirthdayMonth(birthDate, atDate time.Time) bool {
	return birthDate.Month() == atDate.Month()
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in the month of the given year
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds a specified number of months to a date, clamping to the end of the
// target month instead of overflowing into the next one
func AddMonths(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month(), 1, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	target := first.AddDate(0, months, 0)
	day := date.Day()
	if last := DaysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// FirstOfMonth returns midnight on the first day of the month of date
func FirstOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month of date
func EndOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), DaysInMonth(date.Year(), date.Month()), 0, 0, 0, 0, date.Location())
}

// EndOfYear returns the last day of the year for a given date
func EndOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 12, 31, 23, 59, 59, 999999999, date.Location())
}

// BeginningOfYear returns the first day of the year for a given date
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}

// PeriodicDatesInMonth enumerates the dates in year/month that fall on anchor + k*periodDays
// for some integer k >= 0. It is used for weekly and biweekly pay schedules.
func PeriodicDatesInMonth(anchor time.Time, periodDays int, year int, month time.Month) []time.Time {
	if periodDays <= 0 {
		return nil
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	if !end.After(anchor) {
		return nil
	}

	first := anchor
	if anchor.Before(start) {
		days := int(start.Sub(anchor).Hours() / 24)
		steps := (days + periodDays - 1) / periodDays
		first = anchor.AddDate(0, 0, steps*periodDays)
	}

	var dates []time.Time
	for d := first; d.Before(end); d = d.AddDate(0, 0, periodDays) {
		dates = append(dates, d)
	}
	return dates
}
