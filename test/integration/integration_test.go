package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/lifeplan/internal/calculation"
	"github.com/rpgo/lifeplan/internal/config"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
)

const profilePath = "../testdata/example_config.yaml"

func month(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }

func loadProfile(t *testing.T) (*domain.Configuration, *domain.Person, calculation.RunOptions) {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(profilePath)
	require.NoError(t, err)
	opts := calculation.RunOptions{Start: cfg.Simulation.StartDate, EndAge: cfg.Simulation.EndAge}
	return cfg, config.BuildPerson(cfg, reference.Default(), opts.Start), opts
}

func TestEndToEndCalculation(t *testing.T) {
	_, base, opts := loadProfile(t)
	p := base.Clone()

	result, err := calculation.NewEngine(nil).Run(context.Background(), p, opts)
	require.NoError(t, err)

	// January 2025 through May 2065, the 95th birthday month
	require.Len(t, result.Snapshots, 485)
	assert.Equal(t, month(2065, time.May), result.Last().Date)
	assert.True(t, result.Totals.Taxes.IsPositive())
	assert.True(t, result.Totals.Income.IsPositive())

	for _, s := range result.Snapshots {
		sum := decimal.Zero
		for _, row := range s.Accounts {
			assert.False(t, row.EndingBalance.IsNegative(), "%s %s negative", s.Date.Format("2006-01"), row.Name)
			sum = sum.Add(row.EndingBalance)
		}
		assert.True(t, sum.Equal(s.NetWorth), "%s net worth is not the sum of balances", s.Date.Format("2006-01"))
	}

	// pay stops at the 62nd birthday
	for _, e := range result.EventsOfKind(domain.EventJobPay) {
		assert.True(t, e.Date.Before(p.RetirementDate()), "paid after retirement on %s", e.Date.Format("2006-01-02"))
	}
	assert.True(t, result.SnapshotAt(month(2032, time.April)).Salary.IsPositive())
	assert.True(t, result.SnapshotAt(month(2032, time.July)).Salary.IsZero())

	fired := map[string]time.Time{}
	for _, e := range result.EventsOfKind(domain.EventMilestone) {
		fired[e.Message] = e.Date
	}
	assert.Equal(t, month(2032, time.June), fired[calculation.MilestoneRetirement])
	assert.Equal(t, month(2037, time.May), fired[calculation.MilestoneSSClaim])
	assert.Equal(t, month(2029, time.December), fired[calculation.MilestonePenaltyFree])

	assert.True(t, result.SnapshotAt(month(2037, time.April)).SocialSecurity.IsZero())
	assert.True(t, result.SnapshotAt(month(2037, time.May)).SocialSecurity.IsPositive())

	assert.True(t, result.SnapshotAt(month(2035, time.April)).HealthcarePremiums.IsZero())
	assert.True(t, result.SnapshotAt(month(2036, time.January)).HealthcarePremiums.IsPositive())

	for _, e := range result.EventsOfKind(domain.EventRMD) {
		assert.Equal(t, time.December, e.Date.Month())
		assert.GreaterOrEqual(t, e.Date.Year(), 2045, "RMDs start in the year of the 75th birthday")
		assert.Equal(t, "401k", e.Account)
	}

	// one settlement per completed year
	assert.Len(t, result.EventsOfKind(domain.EventTaxSettlement), 40)

	// the base profile is untouched by the run
	assert.True(t, base.Account("401k").Balance(month(2030, time.January)).Equal(decimal.NewFromInt(600000)))
}

func TestScenarioComparison(t *testing.T) {
	cfg, base, opts := loadProfile(t)

	summaries, err := calculation.RunScenarios(context.Background(), base, cfg.Scenarios, calculation.ScenarioOptions{Run: opts})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Retire at 62", summaries[0].Name)
	assert.Equal(t, 65, summaries[1].RetirementAge)
	assert.Equal(t, 70, summaries[2].SSClaimAge)

	// three more working years cannot leave less wealth at 95
	assert.True(t, summaries[1].FinalNetWorth.GreaterThanOrEqual(summaries[0].FinalNetWorth))
	assert.True(t, summaries[1].PeakNetWorth.GreaterThan(summaries[0].PeakNetWorth))

	cmp := calculation.CompareScenarios(summaries)
	assert.NotEmpty(t, cmp.BestForNetWorth)
	assert.NotEmpty(t, cmp.BestForLongevity)
	assert.NotEmpty(t, cmp.LowestTaxes)
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	cfg, err := parser.LoadFromFile(profilePath)
	require.NoError(t, err)
	assert.NoError(t, parser.ValidateConfiguration(cfg))

	cfg.Profile.SSClaimAge = 71
	assert.ErrorIs(t, parser.ValidateConfiguration(cfg), config.ErrInvalidConfiguration)
}
