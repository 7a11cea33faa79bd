package calculation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
	"github.com/rpgo/lifeplan/pkg/dateutil"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

func fixNow(t *testing.T, now time.Time) {
	t.Helper()
	SetNowFunc(func() time.Time { return now })
	t.Cleanup(func() { SetNowFunc(time.Now) })
}

func TestEngine_GrowthOnlyToAge100(t *testing.T) {
	fixNow(t, ymd(2025, 1, 15))

	p := domain.NewPerson("Casey", ymd(1998, 1, 14))
	p.MedicarePartB = false
	p.AddAccount(account.New("401k", account.Roth401k, amt(0.05), amt(75000), ymd(2025, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{})
	require.NoError(t, err)

	currentAge := p.Age(nowFunc())
	require.Equal(t, 27, currentAge)
	expected := 75000 * math.Pow(1.05, float64(100-currentAge))
	actual := result.FinalNetWorth.InexactFloat64()
	assert.InDelta(t, 1.0, actual/expected, 0.01, "final %.2f, expected about %.2f", actual, expected)

	assert.Equal(t, ymd(2025, 1, 1), result.Start)
	assert.Equal(t, ymd(2098, 1, 1), result.Last().Date)
	assert.Zero(t, result.Totals.Shortfalls)
	assert.True(t, result.Totals.Taxes.IsZero())
	assert.True(t, result.PeakNetWorth.Equal(result.FinalNetWorth))
}

func TestEngine_RetireeRMD(t *testing.T) {
	p := domain.NewPerson("Morgan", ymd(1951, 6, 1))
	p.EssentialExpenses = amt(50000)
	p.AddAccount(account.New("401k", account.Traditional401k, amt(0.05), amt(500000), ymd(2025, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{
		Start: ymd(2025, 1, 1),
		End:   ymd(2030, 12, 31),
	})
	require.NoError(t, err)
	assert.Len(t, result.Snapshots, 72)
	assert.Zero(t, result.Totals.Shortfalls)

	rmds := result.EventsOfKind(domain.EventRMD)
	require.Len(t, rmds, 6)
	assertAmount(t, 19607.84, rmds[0].Amount, "500000 / 25.5 at 74")

	tables := reference.Default()
	a := p.Account("401k")
	for _, e := range rmds {
		year := e.Date.Year()
		divisor := tables.UniformLifetimeDivisor(dateutil.AgeAtYearEnd(p.Birth, year))
		expected := dec.Cents(a.StartingBalance(year).Div(divisor))
		assert.True(t, expected.Equal(e.Amount), "%d: expected %s, got %s", year, expected, e.Amount)
		assert.True(t, a.DistributionsInYear(year).GreaterThanOrEqual(e.Amount), "%d distributions below the RMD", year)
	}

	dec2025 := result.SnapshotAt(ymd(2025, 12, 1))
	require.NotNil(t, dec2025)
	assertAmount(t, 19607.84, dec2025.RMD)
	assert.Equal(t, "retired_rmd", dec2025.Phase)
}

func TestEngine_RMDTopUpIsBanked(t *testing.T) {
	p := domain.NewPerson("Morgan", ymd(1951, 6, 1))
	p.MedicarePartB = false
	p.AddAccount(account.New("savings", account.Savings, decimal.Zero, decimal.Zero, ymd(2025, 1, 1)))
	p.AddAccount(account.New("ira", account.TraditionalIRA, decimal.Zero, amt(255000), ymd(2025, 1, 1)))

	_, err := NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2025, 12, 31)})
	require.NoError(t, err)

	// 255000 / 25.5 moved in December
	assertAmount(t, 10000, p.Account("savings").Balance(ymd(2025, 12, 31)))
	assertAmount(t, 245000, p.Account("ira").Balance(ymd(2025, 12, 31)))
}

func TestEngine_WithdrawalsIncludeRMDAndTaxes(t *testing.T) {
	p := domain.NewPerson("Morgan", ymd(1951, 6, 1))
	p.MedicarePartB = false
	p.AddAccount(account.New("savings", account.Savings, decimal.Zero, decimal.Zero, ymd(2025, 1, 1)))
	p.AddAccount(account.New("ira", account.TraditionalIRA, decimal.Zero, amt(1275000), ymd(2025, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2026, 1, 31)})
	require.NoError(t, err)

	// 1275000 / 25.5 is the only money drawn in 2025
	dec2025 := result.SnapshotAt(ymd(2025, 12, 1))
	require.NotNil(t, dec2025)
	assertAmount(t, 50000, dec2025.RMD)
	assertAmount(t, 50000, dec2025.Withdrawals)
	assert.True(t, result.SnapshotAt(ymd(2025, 11, 1)).Withdrawals.IsZero())

	settlements := result.EventsOfKind(domain.EventTaxSettlement)
	require.Len(t, settlements, 1)
	require.True(t, settlements[0].Amount.IsPositive())
	jan := result.SnapshotAt(ymd(2026, 1, 1))
	require.NotNil(t, jan)
	assert.True(t, jan.Withdrawals.Equal(settlements[0].Amount), "withdrawals %s, tax due %s", jan.Withdrawals, settlements[0].Amount)
	assert.True(t, jan.Taxes.Equal(settlements[0].Amount))
}

func TestEngine_AccountOpenedMidRun(t *testing.T) {
	p := domain.NewPerson("Robin", ymd(1970, 5, 20))
	p.MedicarePartB = false
	p.AddAccount(account.New("savings", account.Savings, decimal.Zero, amt(10000), ymd(2025, 1, 1)))
	p.AddAccount(account.New("brokerage", account.TaxableBrokerage, decimal.Zero, amt(50000), ymd(2027, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2028, 12, 31)})
	require.NoError(t, err)

	brokerage := p.Account("brokerage")
	assert.True(t, brokerage.StartingBalances[2027].GreaterThanOrEqual(amt(50000)), "opening balance replaced: %s", brokerage.StartingBalances[2027])
	assert.True(t, brokerage.Balance(ymd(2027, 6, 30)).GreaterThanOrEqual(amt(50000)))
	_, recorded := brokerage.StartingBalances[2026]
	assert.False(t, recorded)

	assertAmount(t, 10000, result.SnapshotAt(ymd(2026, 12, 1)).NetWorth)
	assertAmount(t, 0, brokerage.Balance(ymd(2026, 12, 31)))
	assertAmount(t, 60000, result.SnapshotAt(ymd(2027, 6, 1)).NetWorth)
	assertAmount(t, 60000, result.FinalNetWorth)
	assert.Zero(t, result.Totals.Shortfalls)
}

func sumCategory(txs []account.Transaction, category account.Category) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Category == category {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// Without a savings account RMD top-ups and tax refunds still land somewhere
func TestEngine_AddsCashAccountWhenMissing(t *testing.T) {
	fixNow(t, ymd(2025, 1, 15))

	p := domain.NewPerson("Casey", ymd(1998, 1, 14))
	p.MedicarePartB = false
	p.AddAccount(account.New("401k", account.Traditional401k, amt(0.05), amt(75000), ymd(2025, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{})
	require.NoError(t, err)

	cash := p.Account(account.DefaultCashAccount)
	require.NotNil(t, cash)
	assert.Equal(t, account.Savings, cash.Kind)
	assert.Equal(t, ymd(2025, 1, 1), cash.OpenDate)

	rmds := result.EventsOfKind(domain.EventRMD)
	require.Len(t, rmds, 25)
	assert.Equal(t, 2073, rmds[0].Date.Year())
	assert.Equal(t, time.December, rmds[0].Date.Month())

	k401 := p.Account("401k")
	distributed := sumCategory(k401.Withdrawals(), account.CategoryRMD)
	require.True(t, distributed.IsPositive())
	assert.True(t, sumCategory(cash.Deposits(), account.CategoryTransfer).Equal(distributed))
	assert.True(t, cash.Balance(result.Last().Date).IsPositive())
	assert.True(t, result.Totals.Taxes.IsPositive())
	assert.Zero(t, result.Totals.Shortfalls)

	// taxes on the distributions keep the total below pure compounding
	expected := 75000 * math.Pow(1.05, 73)
	ratio := result.FinalNetWorth.InexactFloat64() / expected
	assert.Less(t, ratio, 1.0)
	assert.Greater(t, ratio, 0.4)
}

func TestEngine_ShortfallIsRecordedNotFatal(t *testing.T) {
	p := domain.NewPerson("Drew", ymd(1960, 1, 1))
	p.EssentialExpenses = amt(60000)
	p.MedicarePartB = false
	p.AddAccount(account.New("savings", account.Savings, decimal.Zero, amt(10000), ymd(2025, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2026, 12, 31)})
	require.NoError(t, err)

	assert.Len(t, result.Snapshots, 24)
	require.NotNil(t, result.DepletionDate)
	// savings cover January and February
	assert.Equal(t, ymd(2025, 3, 31), *result.DepletionDate)
	assert.Equal(t, 22, result.Totals.Shortfalls)
	assert.NotEmpty(t, result.EventsOfKind(domain.EventShortfall))
	// 120000 of spending against 10000 saved
	assertAmount(t, 110000, result.Totals.Shortfall)
	assert.True(t, result.FinalNetWorth.IsZero())
}

func TestEngine_WorkingYear(t *testing.T) {
	p, _ := newEarner()
	p.MedicarePartB = false
	p.InflationRate = amt(0.03)

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2026, 1, 31)})
	require.NoError(t, err)

	assert.Len(t, result.EventsOfKind(domain.EventJobPay), 26)
	assertAmount(t, 120000, p.IncomeFor(2025).Wages)
	assertAmount(t, 10000, result.SnapshotAt(ymd(2025, 3, 1)).Salary)
	assert.Zero(t, result.Totals.Shortfalls)

	settlements := result.EventsOfKind(domain.EventTaxSettlement)
	require.Len(t, settlements, 1)
	assert.Equal(t, ymd(2026, 1, 1), settlements[0].Date)
	assert.True(t, p.IncomeFor(2025).TaxesPaid.IsPositive())

	// spending is indexed once, in January 2026
	assertAmount(t, 37080, p.EssentialExpenses)
	assert.True(t, p.Account("401k").Balance(ymd(2025, 12, 31)).IsPositive())
	assert.True(t, p.Account("roth ira").Balance(ymd(2025, 12, 31)).IsPositive(), "surplus swept into the Roth IRA")
}

func TestEngine_SocialSecurityClaim(t *testing.T) {
	p := domain.NewPerson("Avery", ymd(1963, 3, 10))
	p.SSClaimAge = 62
	p.SSBenefitAtFRA = amt(2000)
	p.AddAccount(account.New("savings", account.Savings, decimal.Zero, decimal.Zero, ymd(2025, 1, 1)))

	result, err := NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2025, 6, 30)})
	require.NoError(t, err)

	assert.True(t, result.SnapshotAt(ymd(2025, 2, 1)).SocialSecurity.IsZero())
	assertAmount(t, 1400, result.SnapshotAt(ymd(2025, 3, 1)).SocialSecurity)
	assertAmount(t, 5600, p.Account("savings").Balance(ymd(2025, 6, 30)))

	var claimed bool
	for _, e := range result.EventsOfKind(domain.EventMilestone) {
		if e.Message == MilestoneSSClaim {
			claimed = true
			assert.Equal(t, ymd(2025, 3, 1), e.Date)
		}
	}
	assert.True(t, claimed)
}

func TestEngine_Subscribers(t *testing.T) {
	p := domain.NewPerson("Quinn", ymd(1980, 7, 4))
	engine := NewEngine(nil)

	var birthdays, months int
	engine.Sim.Bus.Subscribe(domain.EventBirthday, func(domain.Event) { birthdays++ })
	engine.Sim.Bus.SubscribeAll(func(e domain.Event) {
		if e.Kind == domain.EventNewMonth {
			months++
		}
	})

	_, err := engine.Run(context.Background(), p, RunOptions{Start: ymd(2025, 1, 1), End: ymd(2026, 12, 31)})
	require.NoError(t, err)
	assert.Equal(t, 2, birthdays)
	assert.Equal(t, 24, months)
}

func TestEngine_Errors(t *testing.T) {
	p := domain.NewPerson("Quinn", ymd(1980, 7, 4))

	_, err := NewEngine(nil).Run(context.Background(), nil, RunOptions{})
	assert.ErrorIs(t, err, ErrNoPerson)

	_, err = NewEngine(nil).Run(context.Background(), p, RunOptions{Start: ymd(2030, 1, 1), End: ymd(2029, 1, 1)})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewEngine(nil).Run(ctx, p, RunOptions{Start: ymd(2025, 1, 1)})
	assert.True(t, errors.Is(err, context.Canceled))
}
