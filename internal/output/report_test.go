package output_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	stddec "github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/config"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/output"
)

func TestSaveConfiguration(t *testing.T) {
	parser := config.NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := output.SaveConfiguration(cfg, path); err != nil {
		t.Fatalf("SaveConfiguration error: %v", err)
	}
	loaded, err := parser.LoadFromFile(path)
	if err != nil {
		t.Fatalf("saved configuration does not load: %v", err)
	}
	if loaded.Profile.Name != cfg.Profile.Name || len(loaded.Accounts) != len(cfg.Accounts) {
		t.Fatalf("round trip lost data: %+v", loaded.Profile)
	}
}

func TestGenerateReport(t *testing.T) {
	report := &output.Report{
		Name: "Baseline",
		Result: &domain.SimulationResult{
			Snapshots: []domain.Snapshot{{
				Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Accounts: []domain.AccountRow{{Name: "savings", EndingBalance: stddec.NewFromInt(100)}},
				NetWorth: stddec.NewFromInt(100),
			}},
		},
	}

	for _, format := range []string{"json", "csv", "snapshot-csv", "console", "html"} {
		var buf bytes.Buffer
		if err := output.GenerateReport(&buf, report, format); err != nil {
			t.Fatalf("GenerateReport %s error: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("GenerateReport %s wrote nothing", format)
		}
	}

	var buf bytes.Buffer
	err := output.GenerateReport(&buf, report, "pdf")
	if !errors.Is(err, output.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGenerateAssumptions(t *testing.T) {
	p := domain.NewPerson("Alex", time.Date(1980, 4, 12, 0, 0, 0, 0, time.UTC))
	p.InflationRate = stddec.NewFromFloat(0.025)
	p.AddAccount(account.New("401k", account.Traditional401k, stddec.NewFromFloat(0.06), stddec.Zero,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	got := strings.Join(output.GenerateAssumptions(p), "\n")
	for _, want := range []string{"Inflation: 2.50% annually", "401k (traditional_401k): 6.00% annual return", "Retirement at 65"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in assumptions:\n%s", want, got)
		}
	}
	if len(output.GenerateAssumptions(nil)) != len(output.DefaultAssumptions) {
		t.Fatalf("nil profile should fall back to the defaults")
	}
}
