package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
	"github.com/rpgo/lifeplan/pkg/dateutil"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal income tax only. Brackets, deductions and thresholds come from the
//    reference tables for the tax year, falling back to the latest earlier year.
//
// 2. Standard deduction always; one additional senior deduction from the year the
//    person turns 65. Only the simulated person is modelled on a joint return.
//
// 3. Withdrawals from pre-tax accounts (traditional 401k/IRA, HSA) are ordinary
//    income. Growth in brokerage and savings accounts is taxed as it accrues and is
//    the only net investment income.
//
// 4. AMT income is approximated as AGI (no preference items).

// IncomeBreakdown separates the sources that make up a year's income
type IncomeBreakdown struct {
	Wages                 decimal.Decimal `json:"wages"`
	Distributions         decimal.Decimal `json:"distributions"` // pre-tax account withdrawals
	Interest              decimal.Decimal `json:"interest"`
	SocialSecurity        decimal.Decimal `json:"social_security"`
	TaxableSocialSecurity decimal.Decimal `json:"taxable_social_security"`
	PretaxContributions   decimal.Decimal `json:"pretax_contributions"`
}

// Gross returns gross income: wages, distributions, interest and taxable benefits
func (b IncomeBreakdown) Gross() decimal.Decimal {
	return dec.Sum(b.Wages, b.Distributions, b.Interest, b.TaxableSocialSecurity)
}

// AGI returns gross income less pre-tax payroll contributions
func (b IncomeBreakdown) AGI() decimal.Decimal {
	return dec.NonNegative(b.Gross().Sub(b.PretaxContributions))
}

// otherIncome is AGI before any Social Security is included
func (b IncomeBreakdown) otherIncome() decimal.Decimal {
	return dec.NonNegative(dec.Sum(b.Wages, b.Distributions, b.Interest).Sub(b.PretaxContributions))
}

// TaxSummary is the complete federal tax picture for one year
type TaxSummary struct {
	Year               int             `json:"year"`
	Status             string          `json:"filing_status"`
	Income             IncomeBreakdown `json:"income"`
	Deduction          decimal.Decimal `json:"deduction"`
	TaxableIncome      decimal.Decimal `json:"taxable_income"`
	OrdinaryTax        decimal.Decimal `json:"ordinary_tax"`
	AMT                decimal.Decimal `json:"amt"`
	NIIT               decimal.Decimal `json:"niit"`
	AdditionalMedicare decimal.Decimal `json:"additional_medicare"`
	FICA               decimal.Decimal `json:"fica"`
}

// IncomeTax returns income tax including surtaxes
func (s TaxSummary) IncomeTax() decimal.Decimal {
	return dec.Sum(s.OrdinaryTax, s.AMT, s.NIIT, s.AdditionalMedicare)
}

// Total returns income tax plus payroll tax
func (s TaxSummary) Total() decimal.Decimal {
	return s.IncomeTax().Add(s.FICA)
}

// TaxCalculator computes federal taxes from reference tables
type TaxCalculator struct {
	Tables *reference.Tables
}

// NewTaxCalculator creates a tax calculator over tables
func NewTaxCalculator(tables *reference.Tables) *TaxCalculator {
	return &TaxCalculator{Tables: tables}
}

// TaxOwed sums the marginal brackets below taxableIncome
func (tc *TaxCalculator) TaxOwed(status reference.FilingStatus, taxableIncome decimal.Decimal, year int) decimal.Decimal {
	if !taxableIncome.IsPositive() {
		return decimal.Zero
	}
	ft := tc.Tables.Filing(year, status)
	if ft == nil {
		return decimal.Zero
	}

	var totalTax decimal.Decimal
	for _, bracket := range ft.Brackets {
		if taxableIncome.LessThanOrEqual(bracket.Lower) {
			break
		}
		top := taxableIncome
		if !bracket.Unbounded() {
			top = decimal.Min(taxableIncome, bracket.Upper)
		}
		totalTax = totalTax.Add(top.Sub(bracket.Lower).Mul(bracket.Rate))
	}
	return totalTax
}

// Breakdown collects a person's income sources for year from the income tracker
// and the account ledgers
func (tc *TaxCalculator) Breakdown(p *domain.Person, year int) IncomeBreakdown {
	var b IncomeBreakdown
	if iy, ok := p.Income[year]; ok {
		b.Wages = iy.Wages
		b.SocialSecurity = iy.SocialSecurity
		b.PretaxContributions = iy.PretaxContributions
	}
	for _, a := range p.Accounts {
		switch {
		case a.Kind.IsPreTax():
			b.Distributions = b.Distributions.Add(a.DistributionsInYear(year))
		case a.Kind.IsTaxable():
			earned := a.Contributions(year, account.CategoryInterest).Sub(a.WithdrawalsInYear(year, account.CategoryLoss))
			b.Interest = b.Interest.Add(dec.NonNegative(earned))
		}
	}
	b.TaxableSocialSecurity = tc.taxableBenefits(p.FilingStatus, b.SocialSecurity, b.otherIncome(), year)
	return b
}

// GrossIncome returns wages, pre-tax withdrawals, interest and taxable Social Security for year
func (tc *TaxCalculator) GrossIncome(p *domain.Person, year int) decimal.Decimal {
	return tc.Breakdown(p, year).Gross()
}

// TaxableSocialSecurity returns the taxable portion of the year's benefits
func (tc *TaxCalculator) TaxableSocialSecurity(p *domain.Person, year int) decimal.Decimal {
	return tc.Breakdown(p, year).TaxableSocialSecurity
}

// taxableBenefits applies the provisional income worksheet. Below the base amount
// nothing is taxable; between base and adjusted base up to 50%; above it up to 85%.
func (tc *TaxCalculator) taxableBenefits(status reference.FilingStatus, benefits, otherIncome decimal.Decimal, year int) decimal.Decimal {
	if !benefits.IsPositive() {
		return decimal.Zero
	}
	ft := tc.Tables.Filing(year, status)
	if ft == nil {
		return decimal.Zero
	}

	half := decimal.NewFromFloat(0.5)
	upper := decimal.NewFromFloat(0.85)
	provisional := otherIncome.Add(benefits.Mul(half))

	if provisional.LessThanOrEqual(ft.SSBaseAmount) {
		return decimal.Zero
	}
	if provisional.LessThanOrEqual(ft.SSAdjustedBase) {
		return decimal.Min(provisional.Sub(ft.SSBaseAmount).Mul(half), benefits.Mul(half))
	}
	firstTier := decimal.Min(ft.SSAdjustedBase.Sub(ft.SSBaseAmount).Mul(half), benefits.Mul(half))
	taxable := provisional.Sub(ft.SSAdjustedBase).Mul(upper).Add(firstTier)
	return decimal.Min(taxable, benefits.Mul(upper))
}

// Deduction returns the standard deduction for the person in year
func (tc *TaxCalculator) Deduction(p *domain.Person, year int) decimal.Decimal {
	ft := tc.Tables.Filing(year, p.FilingStatus)
	if ft == nil {
		return decimal.Zero
	}
	deduction := ft.StandardDeduction
	if dateutil.AgeAtYearEnd(p.Birth, year) >= 65 {
		deduction = deduction.Add(ft.AdditionalDeduction)
	}
	return deduction
}

// TaxableIncome returns AGI less the standard deduction, floored at zero
func (tc *TaxCalculator) TaxableIncome(p *domain.Person, year int) decimal.Decimal {
	return dec.NonNegative(tc.Breakdown(p, year).AGI().Sub(tc.Deduction(p, year)))
}

// NetInvestmentIncomeTax is levied on the lesser of investment income and MAGI above the threshold
func (tc *TaxCalculator) NetInvestmentIncomeTax(status reference.FilingStatus, investmentIncome, magi decimal.Decimal, year int) decimal.Decimal {
	yt := tc.Tables.Year(year)
	if yt == nil || !investmentIncome.IsPositive() {
		return decimal.Zero
	}
	excess := magi.Sub(yt.ForStatus(status).NIITThreshold)
	if !excess.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(investmentIncome, excess).Mul(yt.NIITRate)
}

// AdditionalMedicareTax is levied on wages above the filing-status threshold
func (tc *TaxCalculator) AdditionalMedicareTax(status reference.FilingStatus, wages decimal.Decimal, year int) decimal.Decimal {
	yt := tc.Tables.Year(year)
	if yt == nil {
		return decimal.Zero
	}
	excess := wages.Sub(yt.ForStatus(status).AdditionalMedicareThreshold)
	if !excess.IsPositive() {
		return decimal.Zero
	}
	return excess.Mul(yt.FICA.AdditionalMedicareRate)
}

// FICA returns the employee share of Social Security and Medicare payroll tax on wages
func (tc *TaxCalculator) FICA(wages decimal.Decimal, year int) decimal.Decimal {
	yt := tc.Tables.Year(year)
	if yt == nil || !wages.IsPositive() {
		return decimal.Zero
	}
	ssWages := wages
	if yt.FICA.SSWageBase.IsPositive() {
		ssWages = decimal.Min(wages, yt.FICA.SSWageBase)
	}
	return ssWages.Mul(yt.FICA.SSRate).Add(wages.Mul(yt.FICA.MedicareRate))
}

// AlternativeMinimumTax returns the tentative minimum tax on amti in excess of regularTax
func (tc *TaxCalculator) AlternativeMinimumTax(status reference.FilingStatus, amti, regularTax decimal.Decimal, year int) decimal.Decimal {
	yt := tc.Tables.Year(year)
	if yt == nil || !amti.IsPositive() {
		return decimal.Zero
	}
	ft := yt.ForStatus(status)

	phaseOut := dec.NonNegative(amti.Sub(ft.AMTPhaseOutStart)).Mul(yt.AMTPhaseOutRate)
	exemption := dec.NonNegative(ft.AMTExemption.Sub(phaseOut))
	base := dec.NonNegative(amti.Sub(exemption))

	var tentative decimal.Decimal
	if base.LessThanOrEqual(ft.AMTBracketBreak) {
		tentative = base.Mul(yt.AMTLowRate)
	} else {
		tentative = ft.AMTBracketBreak.Mul(yt.AMTLowRate).Add(base.Sub(ft.AMTBracketBreak).Mul(yt.AMTHighRate))
	}
	return dec.NonNegative(tentative.Sub(regularTax))
}

// TotalTax computes every federal tax for the person in year
func (tc *TaxCalculator) TotalTax(p *domain.Person, year int) TaxSummary {
	b := tc.Breakdown(p, year)
	s := TaxSummary{
		Year:      year,
		Status:    string(p.FilingStatus),
		Income:    b,
		Deduction: tc.Deduction(p, year),
	}
	agi := b.AGI()
	s.TaxableIncome = dec.NonNegative(agi.Sub(s.Deduction))
	s.OrdinaryTax = tc.TaxOwed(p.FilingStatus, s.TaxableIncome, year)
	s.AMT = tc.AlternativeMinimumTax(p.FilingStatus, agi, s.OrdinaryTax, year)
	s.NIIT = tc.NetInvestmentIncomeTax(p.FilingStatus, b.Interest, agi, year)
	s.AdditionalMedicare = tc.AdditionalMedicareTax(p.FilingStatus, b.Wages, year)
	s.FICA = tc.FICA(b.Wages, year)
	return s
}

// EstimateWithholding returns the per-paycheck withholding for a job paying
// annualWages with annualPretax of pre-tax deferrals
func (tc *TaxCalculator) EstimateWithholding(status reference.FilingStatus, annualWages, annualPretax decimal.Decimal, year, periods int) decimal.Decimal {
	if periods <= 0 || !annualWages.IsPositive() {
		return decimal.Zero
	}
	ft := tc.Tables.Filing(year, status)
	if ft == nil {
		return decimal.Zero
	}
	taxable := dec.NonNegative(annualWages.Sub(annualPretax).Sub(ft.StandardDeduction))
	annual := dec.Sum(
		tc.TaxOwed(status, taxable, year),
		tc.FICA(annualWages, year),
		tc.AdditionalMedicareTax(status, annualWages, year),
	)
	return dec.Cents(annual.Div(decimal.NewFromInt(int64(periods))))
}
