package calculation

import (
	"fmt"

	"github.com/rpgo/lifeplan/internal/domain"
)

// Summarize extracts the key metrics of a finished run of p
func Summarize(p *domain.Person, result *domain.SimulationResult) domain.ScenarioSummary {
	s := domain.ScenarioSummary{
		Name:            result.Name,
		RetirementAge:   p.RetirementAge,
		SSClaimAge:      p.SSClaimAge,
		FinalNetWorth:   result.FinalNetWorth,
		PeakNetWorth:    result.PeakNetWorth,
		TotalTaxes:      result.Totals.Taxes,
		TotalPenalties:  result.Totals.Penalties,
		TotalShortfall:  result.Totals.Shortfall,
		ShortfallMonths: result.Totals.Shortfalls,
		Result:          result,
	}
	if result.DepletionDate != nil {
		s.DepletionAge = p.Age(*result.DepletionDate)
	}
	return s
}

// CompareScenarios ranks scenario summaries and derives recommendations
func CompareScenarios(scenarios []domain.ScenarioSummary) domain.ScenarioComparison {
	cmp := domain.ScenarioComparison{Scenarios: scenarios}
	if len(scenarios) == 0 {
		return cmp
	}

	best, longest, cheapest := 0, 0, 0
	for i, s := range scenarios {
		if s.FinalNetWorth.GreaterThan(scenarios[best].FinalNetWorth) {
			best = i
		}
		if lastsLonger(s, scenarios[longest]) {
			longest = i
		}
		if s.TotalTaxes.LessThan(scenarios[cheapest].TotalTaxes) {
			cheapest = i
		}
	}
	cmp.BestForNetWorth = scenarios[best].Name
	cmp.BestForLongevity = scenarios[longest].Name
	cmp.LowestTaxes = scenarios[cheapest].Name

	for _, s := range scenarios {
		if s.ShortfallMonths > 0 {
			cmp.Recommendations = append(cmp.Recommendations,
				fmt.Sprintf("%s runs short in %d months from age %d; consider retiring later or spending less", s.Name, s.ShortfallMonths, s.DepletionAge))
		}
		if s.TotalPenalties.IsPositive() {
			cmp.Recommendations = append(cmp.Recommendations,
				fmt.Sprintf("%s pays %s in early-withdrawal penalties; build taxable savings to bridge to 59½", s.Name, s.TotalPenalties.StringFixed(2)))
		}
	}
	if longest != best {
		cmp.Recommendations = append(cmp.Recommendations,
			fmt.Sprintf("%s leaves the most wealth but %s is the most durable plan", cmp.BestForNetWorth, cmp.BestForLongevity))
	}
	return cmp
}

// lastsLonger reports whether a is more durable than b: fewer shortfall months, then
// a later depletion age, then a larger final net worth
func lastsLonger(a, b domain.ScenarioSummary) bool {
	if a.ShortfallMonths != b.ShortfallMonths {
		return a.ShortfallMonths < b.ShortfallMonths
	}
	if a.DepletionAge != b.DepletionAge {
		// zero means never depleted
		if a.DepletionAge == 0 || b.DepletionAge == 0 {
			return a.DepletionAge == 0
		}
		return a.DepletionAge > b.DepletionAge
	}
	return a.FinalNetWorth.GreaterThan(b.FinalNetWorth)
}
