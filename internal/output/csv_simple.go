package output

import (
	"bytes"
	"encoding/csv"
)

// LedgerCSV exports one row per account per simulated month: the month's deposits,
// withdrawals and month-end balance.
type LedgerCSV struct{}

func (c LedgerCSV) Name() string { return "csv" }

func (c LedgerCSV) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, ErrEmptyReport
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Date", "Account", "Deposits", "Withdrawals", "EndingBalance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, snap := range report.Result.Snapshots {
		date := snap.Date.Format("2006-01-02")
		for _, row := range snap.Accounts {
			record := []string{
				date,
				row.Name,
				row.Deposits.StringFixed(2),
				row.Withdrawals.StringFixed(2),
				row.EndingBalance.StringFixed(2),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
