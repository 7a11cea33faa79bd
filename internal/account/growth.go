package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/pkg/dateutil"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

// MonthlyGrowth returns the growth one month at the account rate would add to the balance at date
func (a *Account) MonthlyGrowth(date time.Time) decimal.Decimal {
	balance := a.Balance(date)
	if !balance.IsPositive() {
		return decimal.Zero
	}
	return balance.Mul(dec.MonthlyRate(a.AnnualRate))
}

// ApplyMonthlyGrowth records one month of growth at date and returns it.
// Negative growth is recorded as a loss withdrawal.
func (a *Account) ApplyMonthlyGrowth(date time.Time) decimal.Decimal {
	growth := a.MonthlyGrowth(date)
	switch {
	case growth.IsPositive():
		a.deposits.add(NewTransaction(growth, date, CategoryInterest))
	case growth.IsNegative():
		a.withdrawals.add(NewTransaction(growth.Neg(), date, CategoryLoss))
	}
	return growth
}

// RMDStartAge returns the age at which the owner must begin distributions, or zero
// when no owner is bound
func (a *Account) RMDStartAge() int {
	if a.owner == nil {
		return 0
	}
	return dateutil.GetRMDAge(a.owner.BirthDate().Year())
}

// RequiredMinimumDistribution returns the distribution required for date's year:
// the January 1 balance divided by the Uniform Lifetime divisor for the age the
// owner attains by December 31. Accounts not subject to RMDs return zero.
func (a *Account) RequiredMinimumDistribution(date time.Time) decimal.Decimal {
	if !a.Kind.SubjectToRMD() || a.owner == nil {
		return decimal.Zero
	}
	year := date.Year()
	age := dateutil.AgeAtYearEnd(a.owner.BirthDate(), year)
	if age < a.RMDStartAge() {
		return decimal.Zero
	}
	divisor := a.Tables().UniformLifetimeDivisor(age)
	if !divisor.IsPositive() {
		return decimal.Zero
	}
	jan1 := a.StartingBalance(year)
	if !jan1.IsPositive() {
		return decimal.Zero
	}
	return dec.Cents(jan1.Div(divisor))
}

// RemainingRMD returns the part of this year's required distribution not yet taken by date
func (a *Account) RemainingRMD(date time.Time) decimal.Decimal {
	required := a.RequiredMinimumDistribution(date)
	if required.IsZero() {
		return decimal.Zero
	}
	return dec.NonNegative(required.Sub(a.distributionsThrough(date)))
}
