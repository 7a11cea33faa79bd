package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
)

func newRetiree() *domain.Person {
	p := domain.NewPerson("Jordan", ymd(1965, 1, 1))
	p.RetirementAge = 60
	p.EssentialExpenses = amt(40000)
	p.MedicarePartB = false
	p.AddAccount(account.New("savings", account.Savings, decimal.Zero, amt(500000), ymd(2025, 1, 1)))
	return p
}

func intPtr(v int) *int { return &v }

func amtPtr(v float64) *decimal.Decimal {
	d := amt(v)
	return &d
}

func TestRunScenarios(t *testing.T) {
	base := newRetiree()
	scenarios := []domain.ScenarioConfig{
		{Name: "baseline"},
		{Name: "spend more", EssentialExpenses: amtPtr(120000)},
		{Name: "retire at 62", RetirementAge: intPtr(62)},
	}

	summaries, err := RunScenarios(context.Background(), base, scenarios, ScenarioOptions{
		Run:         RunOptions{Start: ymd(2025, 1, 1), End: ymd(2034, 12, 31)},
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	for i, sc := range scenarios {
		assert.Equal(t, sc.Name, summaries[i].Name)
		require.NotNil(t, summaries[i].Result)
		assert.Len(t, summaries[i].Result.Snapshots, 120)
	}

	// 40000 a year for ten years out of 500000
	assertAmount(t, 100000.40, summaries[0].FinalNetWorth)
	assert.Zero(t, summaries[0].ShortfallMonths)
	assert.Zero(t, summaries[0].DepletionAge)

	// 10000 a month lasts 50 months, so March 2029 is the first month short
	spend := summaries[1]
	assert.Equal(t, 70, spend.ShortfallMonths)
	assert.Equal(t, 64, spend.DepletionAge)
	assert.True(t, spend.FinalNetWorth.IsZero())

	assert.Equal(t, 62, summaries[2].RetirementAge)

	// the base profile is untouched
	assert.Equal(t, 60, base.RetirementAge)
	assertAmount(t, 40000, base.EssentialExpenses)
	assertAmount(t, 500000, base.Account("savings").Balance(ymd(2034, 12, 31)))
}

func TestRunScenarios_Errors(t *testing.T) {
	_, err := RunScenarios(context.Background(), nil, nil, ScenarioOptions{})
	assert.ErrorIs(t, err, ErrNoPerson)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunScenarios(ctx, newRetiree(), []domain.ScenarioConfig{{Name: "cancelled"}}, ScenarioOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), `"cancelled"`)
}

func TestCompareScenarios(t *testing.T) {
	summaries := []domain.ScenarioSummary{
		{Name: "early", FinalNetWorth: amt(900000), TotalTaxes: amt(50000), ShortfallMonths: 12, DepletionAge: 91},
		{Name: "steady", FinalNetWorth: amt(600000), TotalTaxes: amt(40000)},
		{Name: "bridge", FinalNetWorth: amt(500000), TotalTaxes: amt(45000), TotalPenalties: amt(3000)},
	}

	cmp := CompareScenarios(summaries)
	assert.Equal(t, "early", cmp.BestForNetWorth)
	assert.Equal(t, "steady", cmp.BestForLongevity)
	assert.Equal(t, "steady", cmp.LowestTaxes)
	require.Len(t, cmp.Recommendations, 3)
	assert.Contains(t, cmp.Recommendations[0], "early runs short in 12 months from age 91")
	assert.Contains(t, cmp.Recommendations[1], "bridge pays 3000.00")
	assert.Contains(t, cmp.Recommendations[2], "most durable")

	empty := CompareScenarios(nil)
	assert.Empty(t, empty.BestForNetWorth)
	assert.Empty(t, empty.Recommendations)
}

func TestLastsLonger(t *testing.T) {
	never := domain.ScenarioSummary{ShortfallMonths: 3}
	late := domain.ScenarioSummary{ShortfallMonths: 3, DepletionAge: 95}
	early := domain.ScenarioSummary{ShortfallMonths: 3, DepletionAge: 80}

	assert.True(t, lastsLonger(late, early))
	assert.False(t, lastsLonger(early, late))
	assert.True(t, lastsLonger(never, late))
	assert.True(t, lastsLonger(domain.ScenarioSummary{}, early))
}
