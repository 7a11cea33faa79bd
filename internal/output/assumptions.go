package output

import (
	"fmt"

	"github.com/rpgo/lifeplan/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Simulation advances one calendar month at a time; growth compounds monthly",
	"Federal income tax only; brackets after the last known year are held constant",
	"Taxes are withheld from pay and settled each January for the prior year",
	"Spending is drawn in tax-aware account order; shortfalls are recorded, never fatal",
	"Required minimum distributions are topped up in December",
}

// GenerateAssumptions creates the assumptions list from a profile
func GenerateAssumptions(p *domain.Person) []string {
	if p == nil {
		return DefaultAssumptions
	}
	out := []string{
		fmt.Sprintf("Inflation: %s annually (expenses and Social Security COLA)", FormatRate(p.InflationRate)),
		fmt.Sprintf("Retirement at %d; Social Security claimed at %d and %d months", p.RetirementAge, p.SSClaimAge, p.SSClaimMonths),
	}
	if p.PartTimeAge > 0 {
		out = append(out, fmt.Sprintf("Part-time work from %d at %s of full pay", p.PartTimeAge, FormatRate(p.PartTimeFactor)))
	}
	for _, a := range p.Accounts {
		out = append(out, fmt.Sprintf("%s (%s): %s annual return", a.Name, a.Kind, FormatRate(a.AnnualRate)))
	}
	return append(out, DefaultAssumptions...)
}
