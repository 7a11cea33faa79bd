package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/pkg/dateutil"
)

// Penalty describes the early-withdrawal rule that applies at a point in time.
// Withdrawals up to Allowance are penalty free; the rest incur Rate.
type Penalty struct {
	Rate      decimal.Decimal
	Allowance decimal.Decimal
	Unlimited bool // no penalty at all
}

// On returns the penalty due on a withdrawal of amount
func (p Penalty) On(amount decimal.Decimal) decimal.Decimal {
	if p.Unlimited || amount.LessThanOrEqual(p.Allowance) {
		return decimal.Zero
	}
	return amount.Sub(p.Allowance).Mul(p.Rate)
}

// MaxWithdrawal returns the largest amount whose withdrawal plus penalty fits in balance
func (p Penalty) MaxWithdrawal(balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	if p.Unlimited || balance.LessThanOrEqual(p.Allowance) {
		return balance
	}
	// w + rate*(w - allowance) = balance
	w := balance.Add(p.Rate.Mul(p.Allowance)).Div(decimal.NewFromInt(1).Add(p.Rate))
	return w.RoundFloor(2)
}

var noPenalty = Penalty{Unlimited: true}

// PenaltyAt returns the rule governing a withdrawal of the given category at date
func (a *Account) PenaltyAt(date time.Time, category Category) Penalty {
	if a.owner == nil {
		return noPenalty
	}
	switch category {
	case CategoryRMD, CategoryTransfer, CategoryLoss, CategoryPenalty:
		return noPenalty
	}

	birth := a.owner.BirthDate()
	tables := a.Tables()
	under59Half := !dateutil.HasReachedAge(birth, date, 59, 6)

	switch a.Kind {
	case Traditional401k:
		if under59Half && !a.ruleOf55(date) {
			return Penalty{Rate: tables.EarlyWithdrawalRate}
		}
	case TraditionalIRA:
		if under59Half {
			return Penalty{Rate: tables.EarlyWithdrawalRate}
		}
	case RothIRA, Roth401k:
		if under59Half {
			basis := tables.RothBasisFraction.Mul(a.StartingBalance(date.Year()))
			allowance := basis.Sub(a.distributionsThrough(date))
			if allowance.IsNegative() {
				allowance = decimal.Zero
			}
			return Penalty{Rate: tables.EarlyWithdrawalRate, Allowance: allowance}
		}
	case HSA:
		if !dateutil.HasReachedAge(birth, date, 65, 0) {
			return Penalty{Rate: tables.HSAPenaltyRate}
		}
	}
	return noPenalty
}

// ruleOf55 reports whether the owner separated from service in or after the
// calendar year they turned 55, on or before date
func (a *Account) ruleOf55(date time.Time) bool {
	sep, ok := a.owner.SeparationDate()
	if !ok || sep.After(date) {
		return false
	}
	return sep.Year() >= a.owner.BirthDate().Year()+55
}

// Withdraw removes up to amount and returns the amount actually withdrawn.
// Any early-withdrawal penalty is recorded as a separate penalty entry.
func (a *Account) Withdraw(amount decimal.Decimal, date time.Time, category Category) decimal.Decimal {
	withdrawn, _ := a.WithdrawWithPenalty(amount, date, category)
	return withdrawn
}

// WithdrawWithPenalty is Withdraw that also reports the penalty charged.
// The withdrawal is reduced so that withdrawn plus penalty never exceeds the balance.
func (a *Account) WithdrawWithPenalty(amount decimal.Decimal, date time.Time, category Category) (withdrawn, penalty decimal.Decimal) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	balance := a.Balance(date)
	if !balance.IsPositive() {
		return decimal.Zero, decimal.Zero
	}

	rule := a.PenaltyAt(date, category)
	withdrawn = amount
	if withdrawn.Add(rule.On(withdrawn)).GreaterThan(balance) {
		withdrawn = rule.MaxWithdrawal(balance)
	}
	if !withdrawn.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	penalty = rule.On(withdrawn)

	a.withdrawals.add(NewTransaction(withdrawn, date, category))
	if penalty.IsPositive() {
		a.withdrawals.add(NewTransaction(penalty, date, CategoryPenalty))
	}
	return withdrawn, penalty
}

// Available returns how much could be withdrawn at date for the given category
// after setting aside penalties
func (a *Account) Available(date time.Time, category Category) decimal.Decimal {
	return a.PenaltyAt(date, category).MaxWithdrawal(a.Balance(date))
}

// PenaltiesInYear totals penalty entries recorded during year
func (a *Account) PenaltiesInYear(year int) decimal.Decimal {
	return a.WithdrawalsInYear(year, CategoryPenalty)
}
