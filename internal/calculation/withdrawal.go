package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
)

const penaltyFreeAgeMonths = 59*12 + 6

var (
	// Penalty-bearing accounts last
	earlyOrder = []account.Kind{
		account.Savings, account.TaxableBrokerage, account.Roth401k, account.RothIRA,
		account.HSA, account.TraditionalIRA, account.Traditional401k,
	}
	// Draw down RMD-subject balances first to shrink future forced distributions
	bridgeOrder = []account.Kind{
		account.Savings, account.TaxableBrokerage, account.Traditional401k, account.TraditionalIRA,
		account.HSA, account.Roth401k, account.RothIRA,
	}
	rmdOrder = []account.Kind{
		account.Savings, account.TaxableBrokerage, account.Traditional401k, account.TraditionalIRA,
		account.Roth401k, account.HSA, account.RothIRA,
	}
)

// OptimalWithdrawalOrder returns every account kind in the order it should be drawn
// for a person ageMonths old whose distributions are required from rmdStartAge.
// Savings always comes first.
func OptimalWithdrawalOrder(ageMonths, rmdStartAge int) []account.Kind {
	var order []account.Kind
	switch {
	case ageMonths < penaltyFreeAgeMonths:
		order = earlyOrder
	case ageMonths < rmdStartAge*12:
		order = bridgeOrder
	default:
		order = rmdOrder
	}
	return append([]account.Kind(nil), order...)
}

// Draw is the part of a withdrawal taken from one account
type Draw struct {
	Account string          `json:"account"`
	Kind    account.Kind    `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	Penalty decimal.Decimal `json:"penalty,omitempty"`
}

// WithdrawalOutcome is the typed result of covering an amount across accounts
type WithdrawalOutcome struct {
	Requested decimal.Decimal `json:"requested"`
	Draws     []Draw          `json:"draws"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	Penalties decimal.Decimal `json:"penalties"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// Covered reports whether the whole request was met
func (o WithdrawalOutcome) Covered() bool { return !o.Shortfall.IsPositive() }

// WithdrawalPolicy draws money across a person's accounts in age-banded order
type WithdrawalPolicy struct {
	Order func(ageMonths, rmdStartAge int) []account.Kind
}

// NewWithdrawalPolicy returns a policy using OptimalWithdrawalOrder
func NewWithdrawalPolicy() *WithdrawalPolicy {
	return &WithdrawalPolicy{Order: OptimalWithdrawalOrder}
}

// Cover withdraws amount at date, walking accounts in policy order until the amount
// is met or every account is exhausted. Early-withdrawal penalties are paid from the
// account on top of the amount drawn. Any unmet remainder is reported as shortfall.
func (wp *WithdrawalPolicy) Cover(p *domain.Person, amount decimal.Decimal, date time.Time, category account.Category) WithdrawalOutcome {
	outcome := WithdrawalOutcome{Requested: amount}
	remaining := amount
	if !remaining.IsPositive() {
		return outcome
	}

	order := wp.Order(p.AgeInMonths(date), p.RMDStartAge())
	for _, kind := range order {
		for _, a := range p.AccountsOfKind(kind) {
			if !remaining.IsPositive() {
				break
			}
			withdrawn, penalty := a.WithdrawWithPenalty(remaining, date, category)
			if withdrawn.IsZero() {
				continue
			}
			outcome.Draws = append(outcome.Draws, Draw{Account: a.Name, Kind: a.Kind, Amount: withdrawn, Penalty: penalty})
			outcome.Withdrawn = outcome.Withdrawn.Add(withdrawn)
			outcome.Penalties = outcome.Penalties.Add(penalty)
			remaining = remaining.Sub(withdrawn)
		}
	}

	if remaining.IsPositive() {
		outcome.Shortfall = remaining
	}
	return outcome
}
