package output

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/domain"
)

// YearSummary rolls the monthly snapshots of one calendar year together
type YearSummary struct {
	Year           int
	Age            int // age in the last simulated month of the year
	Phase          string
	Income         decimal.Decimal
	SocialSecurity decimal.Decimal
	Expenses       decimal.Decimal
	Withdrawals    decimal.Decimal
	Taxes          decimal.Decimal
	RMD            decimal.Decimal
	Shortfall      decimal.Decimal
	NetWorth       decimal.Decimal // at the last simulated month
}

// SummarizeYears aggregates a run by calendar year, in order.
// Extracted from the console and HTML formatters for testability.
func SummarizeYears(result *domain.SimulationResult) []YearSummary {
	if result == nil {
		return nil
	}
	var years []YearSummary
	for _, s := range result.Snapshots {
		y := s.Date.Year()
		if len(years) == 0 || years[len(years)-1].Year != y {
			years = append(years, YearSummary{Year: y})
		}
		ys := &years[len(years)-1]
		ys.Age = s.Age
		ys.Phase = s.Phase
		ys.Income = ys.Income.Add(s.TotalIncome)
		ys.SocialSecurity = ys.SocialSecurity.Add(s.SocialSecurity)
		ys.Expenses = ys.Expenses.Add(s.TotalExpenses())
		ys.Withdrawals = ys.Withdrawals.Add(s.Withdrawals)
		ys.Taxes = ys.Taxes.Add(s.Taxes)
		ys.RMD = ys.RMD.Add(s.RMD)
		ys.Shortfall = ys.Shortfall.Add(s.Shortfall)
		ys.NetWorth = s.NetWorth
	}
	return years
}

// Milestones returns the milestone events of a run in date order
func Milestones(result *domain.SimulationResult) []domain.Event {
	if result == nil {
		return nil
	}
	return result.EventsOfKind(domain.EventMilestone)
}
