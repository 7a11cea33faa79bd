package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/lifeplan/internal/calculation"
	"github.com/rpgo/lifeplan/internal/config"
	"github.com/rpgo/lifeplan/internal/output"
)

func buildReport(t *testing.T) *output.Report {
	t.Helper()
	cfg, base, opts := loadProfile(t)

	result, err := calculation.NewEngine(nil).Run(context.Background(), base.Clone(), opts)
	require.NoError(t, err)

	summaries, err := calculation.RunScenarios(context.Background(), base, cfg.Scenarios, calculation.ScenarioOptions{Run: opts})
	require.NoError(t, err)
	cmp := calculation.CompareScenarios(summaries)

	return &output.Report{
		Name:        cfg.Profile.Name,
		GeneratedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Assumptions: output.GenerateAssumptions(base),
		Result:      result,
		Comparison:  &cmp,
	}
}

func TestReport_AllFormats(t *testing.T) {
	report := buildReport(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.GenerateReport(&buf, report, name))
			assert.NotZero(t, buf.Len())
		})
	}
}

func TestReport_LedgerCSV(t *testing.T) {
	report := buildReport(t)

	var buf bytes.Buffer
	require.NoError(t, output.GenerateReport(&buf, report, "ledger"))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Account", "Deposits", "Withdrawals", "EndingBalance"}, rows[0])

	// one row per account per month
	accounts := len(report.Result.Snapshots[0].Accounts)
	assert.Len(t, rows, 1+accounts*len(report.Result.Snapshots))
}

func TestReport_ConsoleAndJSON(t *testing.T) {
	report := buildReport(t)

	var console bytes.Buffer
	require.NoError(t, output.GenerateReport(&console, report, "console"))
	text := console.String()
	assert.Contains(t, text, "LIFETIME FINANCIAL PLAN: Taylor")
	assert.Contains(t, text, "KEY ASSUMPTIONS:")
	assert.Contains(t, text, "MILESTONES:")
	assert.Contains(t, text, "SCENARIO COMPARISON")
	assert.Contains(t, text, "Retire at 65")

	var js bytes.Buffer
	require.NoError(t, output.GenerateReport(&js, report, "json"))
	var decoded struct {
		Name   string `json:"name"`
		Result struct {
			Snapshots []json.RawMessage `json:"snapshots"`
		} `json:"result"`
		Comparison struct {
			Scenarios []json.RawMessage `json:"scenarios"`
		} `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "Taylor", decoded.Name)
	assert.Len(t, decoded.Result.Snapshots, len(report.Result.Snapshots))
	assert.Len(t, decoded.Comparison.Scenarios, 3)
}

func TestReport_WriteFormattedAndSaveConfiguration(t *testing.T) {
	report := buildReport(t)
	dir := t.TempDir()

	f, err := output.Lookup("html")
	require.NoError(t, err)
	path, err := output.WriteFormatted(f, report, dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".html"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<!DOCTYPE html>")))

	// a saved configuration loads back into the same plan
	cfg, err := config.NewInputParser().LoadFromFile(profilePath)
	require.NoError(t, err)
	saved := filepath.Join(dir, "saved.yaml")
	require.NoError(t, output.SaveConfiguration(cfg, saved))
	reloaded, err := config.NewInputParser().LoadFromFile(saved)
	require.NoError(t, err)
	assert.Equal(t, cfg.Profile.Name, reloaded.Profile.Name)
	assert.Len(t, reloaded.Accounts, len(cfg.Accounts))
	assert.Len(t, reloaded.Scenarios, len(cfg.Scenarios))
}

func TestReport_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := output.GenerateReport(&buf, &output.Report{}, "pdf")
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}
