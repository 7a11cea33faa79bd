package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/reference"
	"github.com/rpgo/lifeplan/pkg/dateutil"
)

// Deposit records a deposit and returns the amount actually deposited.
// Personal and employer contributions to limited kinds are capped at the
// remaining annual room; a zero return means the cap is already reached
// or the account has not opened yet.
func (a *Account) Deposit(amount decimal.Decimal, date time.Time, category Category) decimal.Decimal {
	if !amount.IsPositive() || !a.IsOpen(date) {
		return decimal.Zero
	}
	if a.Kind.HasContributionLimit() && (category == CategoryContribution || category == CategoryEmployer) {
		amount = decimal.Min(amount, a.ContributionRoom(date, category))
		if !amount.IsPositive() {
			return decimal.Zero
		}
	}
	a.deposits.add(NewTransaction(amount, date, category))
	return amount
}

// ContributionRoom returns how much more of the given category may be deposited
// during date's year
func (a *Account) ContributionRoom(date time.Time, category Category) decimal.Decimal {
	if !a.IsOpen(date) {
		return decimal.Zero
	}
	if !a.Kind.HasContributionLimit() {
		return decimal.NewFromInt(1 << 52)
	}
	year := date.Year()
	personal := a.Contributions(year, CategoryContribution)
	employer := a.Contributions(year, CategoryEmployer)

	var room decimal.Decimal
	switch {
	case a.Kind.IsEmployerPlan() && category == CategoryEmployer:
		room = a.Tables().Limits(year).TotalAdditions.Sub(personal).Sub(employer)
	case a.Kind.IsEmployerPlan():
		room = a.AnnualLimit(year).Sub(personal)
	default:
		room = a.AnnualLimit(year).Sub(personal).Sub(employer)
	}
	if room.IsNegative() {
		return decimal.Zero
	}
	return room
}

// AnnualLimit returns the personal contribution limit for year, including any
// catch-up the owner qualifies for by December 31 of that year
func (a *Account) AnnualLimit(year int) decimal.Decimal {
	limits := a.Tables().Limits(year)
	age := -1
	if a.owner != nil {
		age = dateutil.AgeAtYearEnd(a.owner.BirthDate(), year)
	}
	return AnnualLimit(a.Kind, limits, age, a.coverage())
}

func (a *Account) coverage() Coverage {
	if a.owner == nil {
		return CoverageSelf
	}
	return a.owner.HSACoverage()
}

// AnnualLimit computes the personal contribution limit for a kind. A negative age
// means the owner is unknown and no catch-up applies.
func AnnualLimit(kind Kind, limits reference.ContributionLimits, age int, coverage Coverage) decimal.Decimal {
	switch kind {
	case Traditional401k, Roth401k:
		limit := limits.Elective401k
		switch {
		case age >= 60 && age <= 63:
			limit = limit.Add(limits.SuperCatchUp401k)
		case age >= 50:
			limit = limit.Add(limits.CatchUp401k)
		}
		return limit
	case TraditionalIRA, RothIRA:
		limit := limits.IRA
		if age >= 50 {
			limit = limit.Add(limits.IRACatchUp)
		}
		return limit
	case HSA:
		limit := limits.HSASelf
		if coverage == CoverageFamily {
			limit = limits.HSAFamily
		}
		if age >= 55 {
			limit = limit.Add(limits.HSACatchUp)
		}
		return limit
	default:
		return decimal.Zero
	}
}
