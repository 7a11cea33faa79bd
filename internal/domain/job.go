package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/pkg/dateutil"
)

// PaymentType is how a job computes gross pay
type PaymentType string

const (
	Hourly   PaymentType = "hourly"
	Salaried PaymentType = "salaried"
)

// PayFrequency is the paycheck schedule of a job
type PayFrequency string

const (
	Weekly      PayFrequency = "weekly"
	Biweekly    PayFrequency = "biweekly"
	Semimonthly PayFrequency = "semimonthly"
	Monthly     PayFrequency = "monthly"
)

// PeriodsPerYear returns the number of paychecks in a year
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Semimonthly:
		return 24
	default:
		return 12
	}
}

// Job is an income source with payroll contributions
type Job struct {
	Title       string       `yaml:"title" json:"title"`
	StartDate   time.Time    `yaml:"start_date" json:"start_date"`
	EndDate     time.Time    `yaml:"end_date,omitempty" json:"end_date,omitempty"` // zero means open ended
	PaymentType PaymentType  `yaml:"payment_type" json:"payment_type"`
	Frequency   PayFrequency `yaml:"frequency" json:"frequency"`

	Salary       decimal.Decimal `yaml:"salary" json:"salary"` // annual
	HourlyRate   decimal.Decimal `yaml:"hourly_rate" json:"hourly_rate"`
	HoursPerWeek decimal.Decimal `yaml:"hours_per_week" json:"hours_per_week"`
	RaiseRate    decimal.Decimal `yaml:"raise_rate" json:"raise_rate"`

	Bonus      decimal.Decimal `yaml:"bonus" json:"bonus"`
	BonusMonth time.Month      `yaml:"bonus_month" json:"bonus_month"`

	// Payroll contributions as fractions of gross pay
	PersonalContribution decimal.Decimal `yaml:"personal_contribution" json:"personal_contribution"`
	EmployerContribution decimal.Decimal `yaml:"employer_contribution" json:"employer_contribution"`
	RothShare            decimal.Decimal `yaml:"roth_share" json:"roth_share"` // share of personal contribution sent to Roth 401(k)
	HSAContribution      decimal.Decimal `yaml:"hsa_contribution" json:"hsa_contribution"`
}

// IsActive reports whether the job pays at date
func (j *Job) IsActive(date time.Time) bool {
	if date.Before(j.StartDate) {
		return false
	}
	return j.EndDate.IsZero() || !date.After(j.EndDate)
}

// AnnualGross returns gross pay for a full year excluding bonus
func (j *Job) AnnualGross() decimal.Decimal {
	if j.PaymentType == Hourly {
		return j.HourlyRate.Mul(j.HoursPerWeek).Mul(decimal.NewFromInt(52))
	}
	return j.Salary
}

// GrossPerPaycheck returns gross pay for one pay period
func (j *Job) GrossPerPaycheck() decimal.Decimal {
	return j.AnnualGross().Div(decimal.NewFromInt(int64(j.Frequency.PeriodsPerYear())))
}

// PayDatesInMonth enumerates the paydays that fall in the month while the job is active.
// Weekly and biweekly schedules are anchored on the start date; semimonthly pays on
// the 15th and the last day; monthly on the last day.
func (j *Job) PayDatesInMonth(year int, month time.Month) []time.Time {
	var dates []time.Time
	last := time.Date(year, month, dateutil.DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	switch j.Frequency {
	case Weekly:
		dates = dateutil.PeriodicDatesInMonth(j.StartDate, 7, year, month)
	case Biweekly:
		dates = dateutil.PeriodicDatesInMonth(j.StartDate, 14, year, month)
	case Semimonthly:
		dates = []time.Time{time.Date(year, month, 15, 0, 0, 0, 0, time.UTC), last}
	default:
		dates = []time.Time{last}
	}

	active := dates[:0]
	for _, d := range dates {
		if j.IsActive(d) {
			active = append(active, d)
		}
	}
	return active
}

// ApplyRaise applies one year of the configured raise
func (j *Job) ApplyRaise() {
	factor := decimal.NewFromInt(1).Add(j.RaiseRate)
	j.Salary = j.Salary.Mul(factor)
	j.HourlyRate = j.HourlyRate.Mul(factor)
	j.Bonus = j.Bonus.Mul(factor)
}

// Clone returns an independent copy
func (j *Job) Clone() *Job {
	c := *j
	return &c
}
