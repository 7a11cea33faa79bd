package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

// PaycheckAllocation records how one paycheck was split
type PaycheckAllocation struct {
	Date            time.Time       `json:"date"`
	Job             string          `json:"job"`
	Gross           decimal.Decimal `json:"gross"`
	Traditional401k decimal.Decimal `json:"traditional_401k"`
	Roth401k        decimal.Decimal `json:"roth_401k"`
	Employer        decimal.Decimal `json:"employer"`
	HSA             decimal.Decimal `json:"hsa"`
	Withholding     decimal.Decimal `json:"withholding"`
	Net             decimal.Decimal `json:"net"`
	Capped          bool            `json:"capped"` // elective deferral limited by the annual limit
}

// Pretax returns the deferrals that reduce taxable wages
func (a PaycheckAllocation) Pretax() decimal.Decimal {
	return a.Traditional401k.Add(a.HSA)
}

// Transfer is a move of money between two of a person's accounts
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// ContributionPolicy decides where earned money goes
type ContributionPolicy struct {
	Taxes *TaxCalculator

	// MinimumSweep is the smallest savings surplus worth moving
	MinimumSweep decimal.Decimal // Default: 100
}

// NewContributionPolicy creates a contribution policy estimating withholding with taxes
func NewContributionPolicy(taxes *TaxCalculator) *ContributionPolicy {
	return &ContributionPolicy{Taxes: taxes, MinimumSweep: decimal.NewFromInt(100)}
}

// openOfKind returns the first account of kind that is open at date
func openOfKind(p *domain.Person, kind account.Kind, date time.Time) *account.Account {
	for _, a := range p.Accounts {
		if a.Kind == kind && a.IsOpen(date) {
			return a
		}
	}
	return nil
}

// cashAccount is where take-home pay and benefits land at date: the first open
// savings account, else the first open brokerage account
func cashAccount(p *domain.Person, date time.Time) *account.Account {
	if a := openOfKind(p, account.Savings, date); a != nil {
		return a
	}
	return openOfKind(p, account.TaxableBrokerage, date)
}

// electiveRoom returns the elective deferral room left for the year. The limit is
// shared by every employer plan the person holds.
func electiveRoom(p *domain.Person, year int) decimal.Decimal {
	var limit, used decimal.Decimal
	for _, a := range p.Accounts {
		if !a.Kind.IsEmployerPlan() {
			continue
		}
		limit = decimal.Max(limit, a.AnnualLimit(year))
		used = used.Add(a.Contributions(year, account.CategoryContribution))
	}
	return dec.NonNegative(limit.Sub(used))
}

// AllocatePaycheck splits gross pay into 401(k) deferrals (traditional and Roth by the
// job's Roth share), the employer contribution, the HSA deferral and withholding, and
// deposits the remainder into the cash account. Deferrals over the annual limit stay
// in take-home pay.
func (cp *ContributionPolicy) AllocatePaycheck(p *domain.Person, job *domain.Job, gross decimal.Decimal, date time.Time) PaycheckAllocation {
	alloc := PaycheckAllocation{Date: date, Job: job.Title, Gross: gross}
	if !gross.IsPositive() {
		return alloc
	}
	year := date.Year()

	trad := openOfKind(p, account.Traditional401k, date)
	roth := openOfKind(p, account.Roth401k, date)

	personal := dec.Cents(gross.Mul(job.PersonalContribution))
	rothWanted := dec.Cents(personal.Mul(job.RothShare))
	tradWanted := personal.Sub(rothWanted)
	switch {
	case roth == nil:
		tradWanted, rothWanted = personal, decimal.Zero
	case trad == nil:
		tradWanted, rothWanted = decimal.Zero, personal
	}

	room := electiveRoom(p, year)
	if trad != nil && tradWanted.IsPositive() {
		alloc.Traditional401k = trad.Deposit(decimal.Min(tradWanted, room), date, account.CategoryContribution)
		room = room.Sub(alloc.Traditional401k)
	}
	if roth != nil && rothWanted.IsPositive() {
		alloc.Roth401k = roth.Deposit(decimal.Min(rothWanted, room), date, account.CategoryContribution)
	}
	alloc.Capped = alloc.Traditional401k.Add(alloc.Roth401k).LessThan(personal)

	if trad != nil && job.EmployerContribution.IsPositive() {
		alloc.Employer = trad.Deposit(dec.Cents(gross.Mul(job.EmployerContribution)), date, account.CategoryEmployer)
	}
	if hsa := openOfKind(p, account.HSA, date); hsa != nil && job.HSAContribution.IsPositive() {
		alloc.HSA = hsa.Deposit(dec.Cents(gross.Mul(job.HSAContribution)), date, account.CategoryContribution)
	}

	periods := decimal.NewFromInt(int64(job.Frequency.PeriodsPerYear()))
	alloc.Withholding = cp.Taxes.EstimateWithholding(p.FilingStatus, gross.Mul(periods), alloc.Pretax().Mul(periods), year, job.Frequency.PeriodsPerYear())

	alloc.Net = dec.NonNegative(gross.Sub(alloc.Traditional401k).Sub(alloc.Roth401k).Sub(alloc.HSA).Sub(alloc.Withholding))
	if cash := cashAccount(p, date); cash != nil {
		cash.Deposit(alloc.Net, date, account.CategoryIncome)
	}

	iy := p.IncomeFor(year)
	iy.Wages = iy.Wages.Add(gross)
	iy.PretaxContributions = iy.PretaxContributions.Add(alloc.Pretax())
	iy.Withholding = iy.Withholding.Add(alloc.Withholding)
	return alloc
}

// SweepSurplus moves savings above the emergency-fund target for the phase at date:
// first into a Roth IRA up to the annual limit while still earning, then into the
// brokerage account.
func (cp *ContributionPolicy) SweepSurplus(p *domain.Person, date time.Time) []Transfer {
	savings := openOfKind(p, account.Savings, date)
	if savings == nil {
		return nil
	}
	excess := savings.Balance(date).Sub(p.RequiredEmergencyFund(date))
	if excess.LessThan(cp.MinimumSweep) {
		return nil
	}

	var moves []Transfer
	if !p.Phase(date).IsRetired() {
		if roth := openOfKind(p, account.RothIRA, date); roth != nil {
			amount := decimal.Min(excess, roth.ContributionRoom(date, account.CategoryContribution))
			if amount.IsPositive() {
				moved := savings.Withdraw(amount, date, account.CategoryTransfer)
				roth.Deposit(moved, date, account.CategoryContribution)
				moves = append(moves, Transfer{From: savings.Name, To: roth.Name, Amount: moved})
				excess = excess.Sub(moved)
			}
		}
	}

	if brokerage := openOfKind(p, account.TaxableBrokerage, date); brokerage != nil && excess.IsPositive() {
		moved := savings.Withdraw(excess, date, account.CategoryTransfer)
		brokerage.Deposit(moved, date, account.CategoryTransfer)
		moves = append(moves, Transfer{From: savings.Name, To: brokerage.Name, Amount: moved})
	}
	return moves
}
