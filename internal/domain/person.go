package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/reference"
	"github.com/rpgo/lifeplan/pkg/dateutil"
)

// Phase is the life phase of a person at a point in time. It is always derived
// from age and the configured transition ages, never stored.
type Phase int

const (
	Working Phase = iota
	PartTime
	RetiredPreRMD
	RetiredPostRMD
)

func (p Phase) String() string {
	switch p {
	case Working:
		return "working"
	case PartTime:
		return "part_time"
	case RetiredPreRMD:
		return "retired"
	case RetiredPostRMD:
		return "retired_rmd"
	default:
		return "unknown"
	}
}

// IsRetired reports whether employment income has stopped
func (p Phase) IsRetired() bool { return p == RetiredPreRMD || p == RetiredPostRMD }

// EmergencyFund is the number of months of expenses held in savings per phase
type EmergencyFund struct {
	PreRetirementMonths   int `yaml:"pre_retirement_months" json:"pre_retirement_months"`
	EarlyRetirementMonths int `yaml:"early_retirement_months" json:"early_retirement_months"`
	PostRetirementMonths  int `yaml:"post_retirement_months" json:"post_retirement_months"`
}

// DefaultEmergencyFund holds six months while working and a year once retired
func DefaultEmergencyFund() EmergencyFund {
	return EmergencyFund{PreRetirementMonths: 6, EarlyRetirementMonths: 12, PostRetirementMonths: 12}
}

// IncomeYear accumulates the income facts of one calendar year that the ledgers
// do not carry
type IncomeYear struct {
	Year                int             `json:"year"`
	Wages               decimal.Decimal `json:"wages"`
	SocialSecurity      decimal.Decimal `json:"social_security"`
	PretaxContributions decimal.Decimal `json:"pretax_contributions"`
	Withholding         decimal.Decimal `json:"withholding"`
	MedicarePremiums    decimal.Decimal `json:"medicare_premiums"`
	TaxesPaid           decimal.Decimal `json:"taxes_paid"`
}

// Person is the financial profile being simulated
type Person struct {
	Name         string
	Birth        time.Time
	Gender       reference.Gender
	FilingStatus reference.FilingStatus

	RetirementAge  int
	PartTimeAge    int // zero disables the part-time phase
	PartTimeFactor decimal.Decimal

	SSClaimAge       int
	SSClaimMonths    int
	SSBenefitAtFRA   decimal.Decimal // monthly primary insurance amount
	SSMonthlyBenefit decimal.Decimal // current benefit once claimed, COLA adjusted

	EssentialExpenses     decimal.Decimal // annual, current dollars
	DiscretionaryExpenses decimal.Decimal // annual, current dollars
	InflationRate         decimal.Decimal

	Jobs          []*Job
	Accounts      []*account.Account
	EmergencyFund EmergencyFund
	Coverage      account.Coverage
	MedicarePartB bool // pays Part B premiums from 65

	Income map[int]*IncomeYear
}

// NewPerson creates a person with default phase settings
func NewPerson(name string, birth time.Time) *Person {
	return &Person{
		Name:           name,
		Birth:          birth,
		FilingStatus:   reference.Single,
		RetirementAge:  65,
		PartTimeFactor: decimal.NewFromFloat(0.5),
		SSClaimAge:     67,
		EmergencyFund:  DefaultEmergencyFund(),
		Coverage:       account.CoverageSelf,
		MedicarePartB:  true,
		Income:         make(map[int]*IncomeYear),
	}
}

// BirthDate implements account.Owner
func (p *Person) BirthDate() time.Time { return p.Birth }

// SeparationDate implements account.Owner. Separation from service is the retirement date.
func (p *Person) SeparationDate() (time.Time, bool) {
	if p.RetirementAge <= 0 {
		return time.Time{}, false
	}
	return p.RetirementDate(), true
}

// HSACoverage implements account.Owner
func (p *Person) HSACoverage() account.Coverage {
	if p.Coverage == "" {
		return account.CoverageSelf
	}
	return p.Coverage
}

// Age calculates the age of the person at a given date
func (p *Person) Age(atDate time.Time) int {
	return dateutil.Age(p.Birth, atDate)
}

// AgeInMonths calculates the age in whole months at a given date
func (p *Person) AgeInMonths(atDate time.Time) int {
	return dateutil.AgeInMonths(p.Birth, atDate)
}

// RetirementDate is the date the person stops working entirely
func (p *Person) RetirementDate() time.Time {
	return p.Birth.AddDate(p.RetirementAge, 0, 0)
}

// PartTimeDate is the date work drops to part time, or the zero time when disabled
func (p *Person) PartTimeDate() time.Time {
	if p.PartTimeAge <= 0 || p.PartTimeAge >= p.RetirementAge {
		return time.Time{}
	}
	return p.Birth.AddDate(p.PartTimeAge, 0, 0)
}

// RMDStartAge returns the age at which required minimum distributions begin
func (p *Person) RMDStartAge() int {
	return dateutil.GetRMDAge(p.Birth.Year())
}

// FullRetirementAge returns the Social Security full retirement age in months
func (p *Person) FullRetirementAge() int {
	return dateutil.FullRetirementAgeMonths(p.Birth)
}

// SSClaimAgeMonths returns the Social Security claiming age in months
func (p *Person) SSClaimAgeMonths() int {
	return p.SSClaimAge*dateutil.MonthsPerYear + p.SSClaimMonths
}

// SSClaimDate returns the first day of the month in which benefits start
func (p *Person) SSClaimDate() time.Time {
	return dateutil.FirstOfMonth(dateutil.AddMonths(p.Birth, p.SSClaimAgeMonths()))
}

// Phase derives the life phase at date
func (p *Person) Phase(date time.Time) Phase {
	if date.Before(p.RetirementDate()) {
		if pt := p.PartTimeDate(); !pt.IsZero() && !date.Before(pt) {
			return PartTime
		}
		return Working
	}
	if dateutil.AgeAtYearEnd(p.Birth, date.Year()) >= p.RMDStartAge() {
		return RetiredPostRMD
	}
	return RetiredPreRMD
}

// WorkFactor scales job income for the phase at date
func (p *Person) WorkFactor(date time.Time) decimal.Decimal {
	switch p.Phase(date) {
	case Working:
		return decimal.NewFromInt(1)
	case PartTime:
		return p.PartTimeFactor
	default:
		return decimal.Zero
	}
}

// MonthlyEssential returns the monthly essential spending
func (p *Person) MonthlyEssential() decimal.Decimal {
	return p.EssentialExpenses.Div(decimal.NewFromInt(12))
}

// MonthlyDiscretionary returns the monthly discretionary spending
func (p *Person) MonthlyDiscretionary() decimal.Decimal {
	return p.DiscretionaryExpenses.Div(decimal.NewFromInt(12))
}

// MonthlyExpenses returns total monthly spending
func (p *Person) MonthlyExpenses() decimal.Decimal {
	return p.MonthlyEssential().Add(p.MonthlyDiscretionary())
}

// InflateExpenses applies one year of inflation to spending
func (p *Person) InflateExpenses() {
	factor := decimal.NewFromInt(1).Add(p.InflationRate)
	p.EssentialExpenses = p.EssentialExpenses.Mul(factor)
	p.DiscretionaryExpenses = p.DiscretionaryExpenses.Mul(factor)
}

// RequiredEmergencyFund returns the savings target for the phase at date
func (p *Person) RequiredEmergencyFund(date time.Time) decimal.Decimal {
	months := p.EmergencyFund.PreRetirementMonths
	switch p.Phase(date) {
	case RetiredPreRMD:
		months = p.EmergencyFund.EarlyRetirementMonths
	case RetiredPostRMD:
		months = p.EmergencyFund.PostRetirementMonths
	}
	return p.MonthlyExpenses().Mul(decimal.NewFromInt(int64(months)))
}

// TotalBalance sums every account balance at date
func (p *Person) TotalBalance(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Accounts {
		total = total.Add(a.Balance(date))
	}
	return total
}

// AvailableForWithdrawal sums what every account could pay out at date after penalties
func (p *Person) AvailableForWithdrawal(date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Accounts {
		total = total.Add(a.Available(date, account.CategoryExpense))
	}
	return total
}

// Account returns the account with the given name, or nil
func (p *Person) Account(name string) *account.Account {
	for _, a := range p.Accounts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AccountsOfKind returns the accounts of a kind in configuration order
func (p *Person) AccountsOfKind(kind account.Kind) []*account.Account {
	var out []*account.Account
	for _, a := range p.Accounts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// FirstOfKind returns the first account of a kind, or nil
func (p *Person) FirstOfKind(kind account.Kind) *account.Account {
	for _, a := range p.Accounts {
		if a.Kind == kind {
			return a
		}
	}
	return nil
}

// AddAccount binds the account to this person and appends it
func (p *Person) AddAccount(a *account.Account) {
	a.SetOwner(p)
	p.Accounts = append(p.Accounts, a)
}

// ActiveJobs returns the jobs paying at date
func (p *Person) ActiveJobs(date time.Time) []*Job {
	var out []*Job
	for _, j := range p.Jobs {
		if j.IsActive(date) {
			out = append(out, j)
		}
	}
	return out
}

// IncomeFor returns the income tracker for year, creating it on first use
func (p *Person) IncomeFor(year int) *IncomeYear {
	if p.Income == nil {
		p.Income = make(map[int]*IncomeYear)
	}
	iy, ok := p.Income[year]
	if !ok {
		iy = &IncomeYear{Year: year}
		p.Income[year] = iy
	}
	return iy
}

// Clone returns a deep, independent copy. Accounts are rebound to the copy.
func (p *Person) Clone() *Person {
	c := *p
	c.Jobs = make([]*Job, len(p.Jobs))
	for i, j := range p.Jobs {
		c.Jobs[i] = j.Clone()
	}
	c.Accounts = make([]*account.Account, len(p.Accounts))
	for i, a := range p.Accounts {
		c.Accounts[i] = a.Clone(&c)
	}
	c.Income = make(map[int]*IncomeYear, len(p.Income))
	for y, iy := range p.Income {
		copied := *iy
		c.Income[y] = &copied
	}
	return &c
}
