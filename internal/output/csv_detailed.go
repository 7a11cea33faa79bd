package output

import (
	"bytes"
	"encoding/csv"
)

// SnapshotCSV exports the full month-end snapshot, one row per simulated month.
type SnapshotCSV struct{}

func (c SnapshotCSV) Name() string { return "snapshot-csv" }

func (c SnapshotCSV) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, ErrEmptyReport
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Date", "Age", "Phase", "Salary", "SocialSecurity", "TotalIncome",
		"EssentialExpenses", "DiscretionaryExpenses", "HealthcarePremiums", "Withdrawals",
		"Shortfall", "RMD", "Taxes", "NetWorth"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range report.Result.Snapshots {
		row := []string{
			s.Date.Format("2006-01-02"),
			intToString(s.Age),
			s.Phase,
			s.Salary.StringFixed(2),
			s.SocialSecurity.StringFixed(2),
			s.TotalIncome.StringFixed(2),
			s.EssentialExpenses.StringFixed(2),
			s.DiscretionaryExpenses.StringFixed(2),
			s.HealthcarePremiums.StringFixed(2),
			s.Withdrawals.StringFixed(2),
			s.Shortfall.StringFixed(2),
			s.RMD.StringFixed(2),
			s.Taxes.StringFixed(2),
			s.NetWorth.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
