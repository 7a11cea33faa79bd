package output

import (
	"bytes"
	"fmt"
	"strings"
)

// ConsoleFormatter renders a plain-text summary: assumptions, year-by-year table,
// milestones, totals and the scenario comparison when one is attached.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, ErrEmptyReport
	}
	var buf bytes.Buffer
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "LIFETIME FINANCIAL PLAN: %s\n", report.Name)
	fmt.Fprintln(&buf, rule)

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
	}

	if r := report.Result; r != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%-6s %-4s %-12s %15s %15s %15s %15s %15s\n",
			"Year", "Age", "Phase", "Income", "Expenses", "Taxes", "Shortfall", "Net Worth")
		fmt.Fprintln(&buf, strings.Repeat("-", 100))
		for _, y := range SummarizeYears(r) {
			fmt.Fprintf(&buf, "%-6d %-4d %-12s %15s %15s %15s %15s %15s\n",
				y.Year, y.Age, y.Phase,
				FormatCurrency(y.Income),
				FormatCurrency(y.Expenses),
				FormatCurrency(y.Taxes),
				FormatCurrency(y.Shortfall),
				FormatCurrency(y.NetWorth))
		}

		if ms := Milestones(r); len(ms) > 0 {
			fmt.Fprintln(&buf)
			fmt.Fprintln(&buf, "MILESTONES:")
			for _, m := range ms {
				fmt.Fprintf(&buf, "  %s  %s\n", m.Date.Format("2006-01"), m.Message)
			}
		}

		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "TOTALS:")
		fmt.Fprintf(&buf, "  Income:            %s\n", FormatCurrency(r.Totals.Income))
		fmt.Fprintf(&buf, "  Expenses:          %s\n", FormatCurrency(r.Totals.Expenses))
		fmt.Fprintf(&buf, "  Taxes:             %s\n", FormatCurrency(r.Totals.Taxes))
		fmt.Fprintf(&buf, "  Penalties:         %s\n", FormatCurrency(r.Totals.Penalties))
		fmt.Fprintf(&buf, "  RMDs:              %s\n", FormatCurrency(r.Totals.RMD))
		fmt.Fprintf(&buf, "  Peak net worth:    %s (%s)\n", FormatCurrency(r.PeakNetWorth), r.PeakNetWorthDate.Format("2006-01"))
		fmt.Fprintf(&buf, "  Final net worth:   %s\n", FormatCurrency(r.FinalNetWorth))
		fmt.Fprintf(&buf, "  Life expectancy:   age %d\n", r.LifeExpectancyAge)
		if r.DepletionDate != nil {
			fmt.Fprintf(&buf, "  Funds depleted:    %s (%d months short, %s unfunded)\n",
				r.DepletionDate.Format("2006-01"), r.Totals.Shortfalls, FormatCurrency(r.Totals.Shortfall))
		} else {
			fmt.Fprintln(&buf, "  Funds depleted:    never")
		}
	}

	if cmp := report.Comparison; cmp != nil && len(cmp.Scenarios) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SCENARIO COMPARISON")
		fmt.Fprintln(&buf, strings.Repeat("-", 100))
		fmt.Fprintf(&buf, "%-24s %8s %8s %18s %16s %10s\n", "Scenario", "Retire", "Claim", "Final Net Worth", "Taxes", "Short")
		for _, sc := range cmp.Scenarios {
			fmt.Fprintf(&buf, "%-24s %8d %8d %18s %16s %10d\n",
				sc.Name, sc.RetirementAge, sc.SSClaimAge,
				FormatCurrency(sc.FinalNetWorth), FormatCurrency(sc.TotalTaxes), sc.ShortfallMonths)
		}
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Best for net worth: %s\n", cmp.BestForNetWorth)
		fmt.Fprintf(&buf, "Most durable:       %s\n", cmp.BestForLongevity)
		fmt.Fprintf(&buf, "Lowest taxes:       %s\n", cmp.LowestTaxes)
		for _, rec := range cmp.Recommendations {
			fmt.Fprintf(&buf, "• %s\n", rec)
		}
	}
	return buf.Bytes(), nil
}
