package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/lifeplan/internal/domain"
)

// ScenarioCSV implements the scenario summary CSV output (one row per scenario).
type ScenarioCSV struct{}

func (c ScenarioCSV) Name() string { return "scenario-csv" }

func (c ScenarioCSV) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "RetirementAge", "SSClaimAge", "FinalNetWorth", "PeakNetWorth",
		"TotalTaxes", "TotalPenalties", "TotalShortfall", "ShortfallMonths", "Depleted", "DepletionAge"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	var scenarios []domain.ScenarioSummary
	if report != nil && report.Comparison != nil {
		scenarios = append(scenarios, report.Comparison.Scenarios...)
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		row := []string{
			sc.Name,
			intToString(sc.RetirementAge),
			intToString(sc.SSClaimAge),
			sc.FinalNetWorth.StringFixed(2),
			sc.PeakNetWorth.StringFixed(2),
			sc.TotalTaxes.StringFixed(2),
			sc.TotalPenalties.StringFixed(2),
			sc.TotalShortfall.StringFixed(2),
			intToString(sc.ShortfallMonths),
			boolToString(sc.DepletionAge > 0),
			intToString(sc.DepletionAge),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
