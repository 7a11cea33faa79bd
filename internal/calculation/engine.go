package calculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/pkg/dateutil"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

// DefaultEndAge is the age a run ends at when no end date is given
const DefaultEndAge = 100

var (
	// ErrNoPerson is returned when Run is called without a person
	ErrNoPerson = errors.New("no person to simulate")
	// ErrInvalidWindow is returned when the end of a run precedes its start
	ErrInvalidWindow = errors.New("simulation ends before it starts")
)

// RunOptions controls the window of a run
type RunOptions struct {
	Name       string
	Start      time.Time    // defaults to the current month
	End        time.Time    // defaults to the EndAge birthday
	EndAge     int          // Default: 100
	Milestones []*Milestone // run alongside the default milestones
}

// Engine advances a person month by month. An engine and its context serve one run
// at a time; use RunScenarios for parallel runs.
type Engine struct {
	Sim           *Context
	Taxes         *TaxCalculator
	Medicare      *MedicareCalculator
	Withdrawals   *WithdrawalPolicy
	Contributions *ContributionPolicy
	Logger        Logger
}

// NewEngine creates an engine over a run context. A nil context uses the built-in tables.
func NewEngine(sim *Context) *Engine {
	if sim == nil {
		sim = NewContext(nil, nil)
	}
	taxes := NewTaxCalculator(sim.Tables)
	return &Engine{
		Sim:           sim,
		Taxes:         taxes,
		Medicare:      NewMedicareCalculator(sim.Tables),
		Withdrawals:   NewWithdrawalPolicy(),
		Contributions: NewContributionPolicy(taxes),
		Logger:        sim.Logger,
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Sim.Logger = l
}

// monthTally accumulates the flows of the month being simulated
type monthTally struct {
	salary         decimal.Decimal
	socialSecurity decimal.Decimal
	essential      decimal.Decimal
	discretionary  decimal.Decimal
	premiums       decimal.Decimal
	withdrawals    decimal.Decimal
	shortfall      decimal.Decimal
	rmd            decimal.Decimal
	taxes          decimal.Decimal
}

// runState is the bookkeeping of one run
type runState struct {
	person     *domain.Person
	result     *domain.SimulationResult
	milestones []*Milestone
	magi       map[int]decimal.Decimal
	settled    map[int]bool
	month      monthTally
}

// Run simulates p from opts.Start to opts.End and returns the month-by-month history.
// The person's accounts are mutated; pass a clone to keep the original untouched.
// Funding shortfalls are recorded as events and never stop the run.
func (e *Engine) Run(ctx context.Context, p *domain.Person, opts RunOptions) (*domain.SimulationResult, error) {
	if p == nil {
		return nil, ErrNoPerson
	}

	start := opts.Start
	if start.IsZero() {
		start = DefaultStart()
	}
	start = dateutil.FirstOfMonth(start)
	end := opts.End
	if end.IsZero() {
		endAge := opts.EndAge
		if endAge <= 0 {
			endAge = DefaultEndAge
		}
		end = p.Birth.AddDate(endAge, 0, 0)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidWindow, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	for _, a := range p.Accounts {
		a.SetTables(e.Sim.Tables)
		if a.Owner() == nil {
			a.SetOwner(p)
		}
	}
	if cashAccount(p, start) == nil {
		name := account.DefaultCashAccount
		if p.Account(name) != nil {
			name = "cash"
		}
		p.AddAccount(account.New(name, account.Savings, decimal.Zero, decimal.Zero, start, account.WithTables(e.Sim.Tables)))
		e.Logger.Infof("%s has no open savings or brokerage account; added %q to bank pay and benefits", p.Name, name)
	}

	leAge := lifeExpectancyAge(p, start, func(age int) float64 {
		return e.Sim.Tables.LifeExpectancy(p.Gender, age)
	})
	st := &runState{
		person: p,
		result: &domain.SimulationResult{
			Name:              opts.Name,
			Start:             start,
			End:               end,
			LifeExpectancyAge: leAge,
		},
		milestones: append(DefaultMilestones(leAge), opts.Milestones...),
		magi:       make(map[int]decimal.Decimal),
		settled:    make(map[int]bool),
	}

	e.Sim.Bus.reset()

	// Milestones already behind the person take effect without an event
	for _, m := range st.milestones {
		m.Check(p, start)
	}

	e.Logger.Infof("simulating %s from %s to %s", p.Name, start.Format("2006-01"), end.Format("2006-01"))
	for date := start; !date.After(end); date = dateutil.AddMonths(date, 1) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled at %s: %w", date.Format("2006-01"), err)
		}
		st.month = monthTally{}

		// (1) year boundary
		if date.Month() == time.January && date.After(start) {
			e.newYear(st, date)
		}

		// (2) calendar and age triggers
		e.Sim.Bus.Publish(domain.NewEvent(domain.EventNewMonth, date))
		if dateutil.IsBirthdayMonth(p.Birth, date) {
			e.Sim.Bus.Publish(domain.NewEvent(domain.EventBirthday, date,
				domain.WithMessage("%s turns %d", p.Name, date.Year()-p.Birth.Year())))
		}
		e.checkMilestones(st, date)

		// (3) monthly flows, (4) snapshot
		e.record(st, e.step(st, date))
	}

	e.finish(st)
	return st.result, nil
}

// newYear closes the prior year: ledgers roll over, taxes settle, pay and spending
// are indexed for the new year
func (e *Engine) newYear(st *runState, date time.Time) {
	p := st.person
	prev := date.Year() - 1

	for _, a := range p.Accounts {
		a.CloseYear(prev)
	}
	e.settleTaxes(st, prev, date)

	for _, j := range p.Jobs {
		j.ApplyRaise()
	}
	p.InflateExpenses()
	if p.SSMonthlyBenefit.IsPositive() {
		p.SSMonthlyBenefit = ApplySSCOLA(p.SSMonthlyBenefit, p.InflationRate)
	} else {
		p.SSBenefitAtFRA = ApplySSCOLA(p.SSBenefitAtFRA, p.InflationRate)
	}

	e.Sim.Bus.Publish(domain.NewEvent(domain.EventNewYear, date,
		domain.WithAmount(p.TotalBalance(date)),
		domain.WithMessage("%d opens with net worth %s", date.Year(), p.TotalBalance(date).StringFixed(2))))
}

// settleTaxes computes the year's liability and pays the balance over withholding,
// or banks the refund
func (e *Engine) settleTaxes(st *runState, year int, date time.Time) {
	p := st.person
	summary := e.Taxes.TotalTax(p, year)
	iy := p.IncomeFor(year)
	due := dec.Cents(summary.Total().Sub(iy.Withholding))
	iy.TaxesPaid = iy.Withholding

	switch {
	case due.IsPositive():
		out := e.Withdrawals.Cover(p, due, date, account.CategoryTax)
		iy.TaxesPaid = iy.TaxesPaid.Add(out.Withdrawn)
		st.month.taxes = st.month.taxes.Add(out.Withdrawn)
		st.month.withdrawals = st.month.withdrawals.Add(out.Withdrawn)
		if !out.Covered() {
			e.shortfall(st, date, out.Shortfall, "unable to pay %d taxes", year)
		}
	case due.IsNegative():
		cashAccount(p, date).Deposit(due.Neg(), date, account.CategoryIncome)
		iy.TaxesPaid = iy.TaxesPaid.Add(due)
	}

	st.settled[year] = true
	st.result.Totals.Taxes = st.result.Totals.Taxes.Add(summary.Total())
	e.Sim.Bus.Publish(domain.NewEvent(domain.EventTaxSettlement, date,
		domain.WithAmount(due),
		domain.WithMessage("%d taxes %s, withheld %s", year, summary.Total().StringFixed(2), iy.Withholding.StringFixed(2))))
	e.Logger.Debugf("%d: taxable income %s, tax %s, due %s", year,
		summary.TaxableIncome.StringFixed(2), summary.Total().StringFixed(2), due.StringFixed(2))
}

func (e *Engine) checkMilestones(st *runState, date time.Time) {
	for _, m := range st.milestones {
		if m.Check(st.person, date) {
			e.Sim.Bus.Publish(domain.NewEvent(domain.EventMilestone, date,
				domain.WithMessage("%s", m.Name)))
			e.Logger.Infof("%s: milestone %s", date.Format("2006-01"), m.Name)
		}
	}
}

// step runs the monthly flows in fixed order and returns the month's snapshot
func (e *Engine) step(st *runState, date time.Time) domain.Snapshot {
	p := st.person
	monthEnd := dateutil.EndOfMonth(date)

	for _, a := range p.Accounts {
		a.ApplyMonthlyGrowth(date)
	}
	e.processPay(st, date)
	e.processSocialSecurity(st, date, monthEnd)
	e.processExpenses(st, date, monthEnd)
	if date.Month() == time.December {
		e.processRMD(st, monthEnd)
	}
	for _, t := range e.Contributions.SweepSurplus(p, monthEnd) {
		e.Logger.Debugf("%s: moved %s from %s to %s", date.Format("2006-01"), t.Amount.StringFixed(2), t.From, t.To)
	}

	return e.snapshot(st, date, monthEnd)
}

func (e *Engine) processPay(st *runState, date time.Time) {
	p := st.person
	for _, job := range p.Jobs {
		dates := job.PayDatesInMonth(date.Year(), date.Month())
		for i, payDate := range dates {
			factor := p.WorkFactor(payDate)
			if !factor.IsPositive() {
				continue
			}
			gross := job.GrossPerPaycheck()
			if i == len(dates)-1 && job.BonusMonth == date.Month() {
				gross = gross.Add(job.Bonus)
			}
			gross = dec.Cents(gross.Mul(factor))

			alloc := e.Contributions.AllocatePaycheck(p, job, gross, payDate)
			st.month.salary = st.month.salary.Add(gross)
			st.month.taxes = st.month.taxes.Add(alloc.Withholding)

			e.Sim.Bus.Publish(domain.NewEvent(domain.EventJobPay, payDate,
				domain.WithAmount(gross),
				domain.WithMessage("%s paid %s, take-home %s", job.Title, gross.StringFixed(2), alloc.Net.StringFixed(2))))
			if alloc.Capped {
				e.Sim.Bus.Publish(domain.NewEvent(domain.EventContributionCapped, payDate,
					domain.WithAmount(alloc.Traditional401k.Add(alloc.Roth401k)),
					domain.WithMessage("%s deferral capped at the %d limit", job.Title, payDate.Year())))
			}
		}
	}
}

func (e *Engine) processSocialSecurity(st *runState, date, monthEnd time.Time) {
	p := st.person
	if date.Before(p.SSClaimDate()) || !p.SSMonthlyBenefit.IsPositive() {
		return
	}
	benefit := dec.Cents(p.SSMonthlyBenefit)
	cashAccount(p, monthEnd).Deposit(benefit, monthEnd, account.CategoryIncome)
	iy := p.IncomeFor(date.Year())
	iy.SocialSecurity = iy.SocialSecurity.Add(benefit)
	st.month.socialSecurity = benefit
}

func (e *Engine) processExpenses(st *runState, date, monthEnd time.Time) {
	p := st.person
	st.month.essential = dec.Cents(p.MonthlyEssential())
	st.month.discretionary = dec.Cents(p.MonthlyDiscretionary())
	if p.MedicarePartB {
		st.month.premiums = e.Medicare.MonthlyPremium(p.Birth, date, p.FilingStatus, e.magi(st, date.Year()-MedicareLookbackYears))
	}

	total := dec.Sum(st.month.essential, st.month.discretionary, st.month.premiums)
	if !total.IsPositive() {
		return
	}
	if st.month.premiums.IsPositive() {
		iy := p.IncomeFor(date.Year())
		iy.MedicarePremiums = iy.MedicarePremiums.Add(st.month.premiums)
	}

	out := e.Withdrawals.Cover(p, total, monthEnd, account.CategoryExpense)
	st.month.withdrawals = st.month.withdrawals.Add(out.Withdrawn)
	e.Sim.Bus.Publish(domain.NewEvent(domain.EventSpending, monthEnd, domain.WithAmount(total)))
	if !out.Covered() {
		e.shortfall(st, monthEnd, out.Shortfall, "spending of %s not covered", total.StringFixed(2))
	}
}

// processRMD tops up each account's distributions to the year's requirement
func (e *Engine) processRMD(st *runState, monthEnd time.Time) {
	p := st.person
	for _, a := range p.Accounts {
		required := a.RequiredMinimumDistribution(monthEnd)
		if required.IsZero() {
			continue
		}
		remaining := a.RemainingRMD(monthEnd)
		taken := decimal.Zero
		if remaining.IsPositive() {
			taken = a.Withdraw(remaining, monthEnd, account.CategoryRMD)
			cashAccount(p, monthEnd).Deposit(taken, monthEnd, account.CategoryTransfer)
			st.month.withdrawals = st.month.withdrawals.Add(taken)
			if taken.LessThan(remaining) {
				e.shortfall(st, monthEnd, remaining.Sub(taken), "%s cannot satisfy its RMD", a.Name)
			}
		}
		st.month.rmd = st.month.rmd.Add(required)
		st.result.Totals.RMD = st.result.Totals.RMD.Add(required)
		e.Sim.Bus.Publish(domain.NewEvent(domain.EventRMD, monthEnd,
			domain.WithAccount(a.Name),
			domain.WithAmount(required),
			domain.WithMessage("required %s, topped up %s", required.StringFixed(2), taken.StringFixed(2))))
	}
}

func (e *Engine) shortfall(st *runState, date time.Time, amount decimal.Decimal, format string, args ...any) {
	st.month.shortfall = st.month.shortfall.Add(amount)
	st.result.Totals.Shortfall = st.result.Totals.Shortfall.Add(amount)
	if st.result.DepletionDate == nil {
		d := date
		st.result.DepletionDate = &d
	}
	msg := fmt.Sprintf(format, args...)
	e.Sim.Bus.Publish(domain.NewEvent(domain.EventShortfall, date,
		domain.WithAmount(amount),
		domain.WithMessage("%s: short %s", msg, amount.StringFixed(2))))
	e.Logger.Warnf("%s: %s, short %s", date.Format("2006-01-02"), msg, amount.StringFixed(2))
}

// magi returns the modified adjusted gross income of year, cached per run
func (e *Engine) magi(st *runState, year int) decimal.Decimal {
	if v, ok := st.magi[year]; ok {
		return v
	}
	v := e.Taxes.Breakdown(st.person, year).AGI()
	st.magi[year] = v
	return v
}

func (e *Engine) snapshot(st *runState, date, monthEnd time.Time) domain.Snapshot {
	p := st.person
	m := st.month
	snap := domain.Snapshot{
		Date:                  date,
		Age:                   p.Age(date),
		Phase:                 p.Phase(date).String(),
		Salary:                m.salary,
		SocialSecurity:        m.socialSecurity,
		TotalIncome:           m.salary.Add(m.socialSecurity),
		EssentialExpenses:     m.essential,
		DiscretionaryExpenses: m.discretionary,
		HealthcarePremiums:    m.premiums,
		Withdrawals:           m.withdrawals,
		Shortfall:             m.shortfall,
		RMD:                   m.rmd,
		Taxes:                 m.taxes,
		Accounts:              make([]domain.AccountRow, 0, len(p.Accounts)),
	}
	next := dateutil.AddMonths(date, 1)
	for _, a := range p.Accounts {
		deposits, withdrawals := a.Activity(date, next)
		balance := a.Balance(monthEnd)
		snap.Accounts = append(snap.Accounts, domain.AccountRow{
			Name:          a.Name,
			Kind:          a.Kind.String(),
			Deposits:      deposits,
			Withdrawals:   withdrawals,
			EndingBalance: balance,
		})
		snap.NetWorth = snap.NetWorth.Add(balance)
	}
	return snap
}

func (e *Engine) record(st *runState, snap domain.Snapshot) {
	r := st.result
	r.Snapshots = append(r.Snapshots, snap)
	r.Totals.Income = r.Totals.Income.Add(snap.TotalIncome)
	r.Totals.Expenses = r.Totals.Expenses.Add(snap.TotalExpenses())
	r.Totals.Withdrawals = r.Totals.Withdrawals.Add(snap.Withdrawals)
	if snap.Shortfall.IsPositive() {
		r.Totals.Shortfalls++
	}
	if len(r.Snapshots) == 1 || snap.NetWorth.GreaterThan(r.PeakNetWorth) {
		r.PeakNetWorth = snap.NetWorth
		r.PeakNetWorthDate = snap.Date
	}
}

// finish adds the liability of the unsettled final year and totals penalties
func (e *Engine) finish(st *runState) {
	r := st.result
	last := r.Last()
	if last == nil {
		return
	}
	lastYear := last.Date.Year()
	if !st.settled[lastYear] {
		r.Totals.Taxes = r.Totals.Taxes.Add(e.Taxes.TotalTax(st.person, lastYear).Total())
	}
	for _, a := range st.person.Accounts {
		for y := r.Start.Year(); y <= lastYear; y++ {
			r.Totals.Penalties = r.Totals.Penalties.Add(a.PenaltiesInYear(y))
		}
	}
	r.FinalNetWorth = last.NetWorth
	r.Events = e.Sim.Bus.Events()
	e.Logger.Infof("%s: final net worth %s, %d shortfall months", st.person.Name, r.FinalNetWorth.StringFixed(2), r.Totals.Shortfalls)
}
