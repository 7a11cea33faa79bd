package account

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/reference"
)

// Coverage is the HSA coverage tier of the owner
type Coverage string

const (
	CoverageSelf   Coverage = "self"
	CoverageFamily Coverage = "family"
)

// Owner is the read-only view of a person that an account needs for
// age-dependent limits, penalties and required distributions
type Owner interface {
	BirthDate() time.Time
	SeparationDate() (time.Time, bool)
	HSACoverage() Coverage
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *reference.Tables
)

func builtinTables() *reference.Tables {
	defaultTablesOnce.Do(func() {
		defaultTables = reference.Default()
	})
	return defaultTables
}

// Account is a single tax-advantaged or taxable holding with an append-only ledger
type Account struct {
	Name       string
	Kind       Kind
	AnnualRate decimal.Decimal
	OpenDate   time.Time

	// StartingBalances maps a calendar year to the balance at its first instant
	StartingBalances map[int]decimal.Decimal

	deposits    ledger
	withdrawals ledger
	owner       Owner
	tables      *reference.Tables
}

// Option configures an Account at construction
type Option func(*Account)

// WithOwner binds the person whose age drives limits and penalties
func WithOwner(owner Owner) Option {
	return func(a *Account) {
		a.owner = owner
	}
}

// WithTables sets the reference tables used for limits and divisors
func WithTables(tables *reference.Tables) Option {
	return func(a *Account) {
		a.tables = tables
	}
}

// DefaultCashAccount names the savings account created for people who hold none
const DefaultCashAccount = "savings"

// New creates an account whose opening balance seeds the starting balance of the opening year
func New(name string, kind Kind, annualRate, opening decimal.Decimal, openDate time.Time, opts ...Option) *Account {
	a := &Account{
		Name:             name,
		Kind:             kind,
		AnnualRate:       annualRate,
		OpenDate:         openDate,
		StartingBalances: map[int]decimal.Decimal{openDate.Year(): opening},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Owner returns the bound owner, or nil
func (a *Account) Owner() Owner { return a.owner }

// SetOwner rebinds the owner
func (a *Account) SetOwner(owner Owner) { a.owner = owner }

// Tables returns the reference tables in use
func (a *Account) Tables() *reference.Tables {
	if a.tables == nil {
		return builtinTables()
	}
	return a.tables
}

// SetTables replaces the reference tables
func (a *Account) SetTables(tables *reference.Tables) { a.tables = tables }

// baseYear returns the latest year <= year with a recorded starting balance
func (a *Account) baseYear(year int) (int, bool) {
	best, found := 0, false
	for y := range a.StartingBalances {
		if y <= year && (!found || y > best) {
			best, found = y, true
		}
	}
	return best, found
}

// IsOpen reports whether the account exists at date
func (a *Account) IsOpen(date time.Time) bool {
	return !date.Before(a.OpenDate)
}

// Balance returns the balance at the end of date. The base is the latest recorded
// starting balance at or before date's year; every transaction from that year's first
// day through date is applied. Dates before the account opens yield zero.
func (a *Account) Balance(date time.Time) decimal.Decimal {
	if !a.IsOpen(date) {
		return decimal.Zero
	}
	base, ok := a.baseYear(date.Year())
	if !ok {
		return decimal.Zero
	}
	from := time.Date(base, time.January, 1, 0, 0, 0, 0, date.Location())
	in := a.deposits.through(date).Sub(a.deposits.before(from))
	out := a.withdrawals.through(date).Sub(a.withdrawals.before(from))
	return a.StartingBalances[base].Add(in).Sub(out)
}

// StartingBalance returns the balance at the first instant of year
func (a *Account) StartingBalance(year int) decimal.Decimal {
	if b, ok := a.StartingBalances[year]; ok {
		return b
	}
	return a.Balance(endOfYear(year - 1))
}

// CloseYear records the starting balance of the following year. Years that end
// before the account opens are skipped so the opening balance is never replaced.
func (a *Account) CloseYear(year int) {
	if year+1 <= a.OpenDate.Year() {
		return
	}
	a.StartingBalances[year+1] = a.Balance(endOfYear(year))
}

// RecordedYears returns the years with an explicit starting balance
func (a *Account) RecordedYears() []int {
	years := make([]int, 0, len(a.StartingBalances))
	for y := range a.StartingBalances {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Deposits returns a copy of all deposits in date order
func (a *Account) Deposits() []Transaction { return a.deposits.entries() }

// Withdrawals returns a copy of all withdrawals (including penalties) in date order
func (a *Account) Withdrawals() []Transaction { return a.withdrawals.entries() }

// Activity returns total deposits and withdrawals in [from, to)
func (a *Account) Activity(from, to time.Time) (deposits, withdrawals decimal.Decimal) {
	return a.deposits.sum(from, to, nil), a.withdrawals.sum(from, to, nil)
}

// Contributions totals deposits of the given category during year
func (a *Account) Contributions(year int, category Category) decimal.Decimal {
	from, to := yearWindow(year)
	return a.deposits.sum(from, to, func(c Category) bool { return c == category })
}

// WithdrawalsInYear totals withdrawals of the given category during year
func (a *Account) WithdrawalsInYear(year int, category Category) decimal.Decimal {
	from, to := yearWindow(year)
	return a.withdrawals.sum(from, to, func(c Category) bool { return c == category })
}

// DistributionsInYear totals money paid out to the owner during year,
// excluding penalties and market losses
func (a *Account) DistributionsInYear(year int) decimal.Decimal {
	from, to := yearWindow(year)
	return a.withdrawals.sum(from, to, Category.IsDistribution)
}

// distributionsThrough totals distributions from the start of date's year through date
func (a *Account) distributionsThrough(date time.Time) decimal.Decimal {
	from := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	return a.withdrawals.sum(from, date.Add(time.Nanosecond), Category.IsDistribution)
}

// Clone returns an independent copy of the account bound to owner
func (a *Account) Clone(owner Owner) *Account {
	starting := make(map[int]decimal.Decimal, len(a.StartingBalances))
	for y, b := range a.StartingBalances {
		starting[y] = b
	}
	return &Account{
		Name:             a.Name,
		Kind:             a.Kind,
		AnnualRate:       a.AnnualRate,
		OpenDate:         a.OpenDate,
		StartingBalances: starting,
		deposits:         a.deposits.clone(),
		withdrawals:      a.withdrawals.clone(),
		owner:            owner,
		tables:           a.tables,
	}
}

func endOfYear(year int) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}

func yearWindow(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
}
