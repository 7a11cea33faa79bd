package decimal

import (
	"math"
	"testing"

	stddec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCentsUsesBankersRounding(t *testing.T) {
	cases := []struct{ in, out string }{
		{"2.344", "2.34"},
		{"2.345", "2.34"},
		{"2.355", "2.36"},
		{"2.3451", "2.35"},
	}
	for _, c := range cases {
		assert.Equal(t, c.out, Cents(stddec.RequireFromString(c.in)).StringFixed(2), c.in)
	}
}

func TestPeriodConversions(t *testing.T) {
	assert.True(t, Annual(stddec.NewFromInt(100)).Equal(stddec.NewFromInt(1200)))
	assert.True(t, Monthly(stddec.NewFromInt(1200)).Equal(stddec.NewFromInt(100)))
}

func TestMonthlyRate(t *testing.T) {
	for _, annual := range []float64{0, 0.05, 0.07, -0.2} {
		got := MonthlyRate(stddec.NewFromFloat(annual)).InexactFloat64()
		assert.InDelta(t, math.Pow(1+annual, 1.0/12)-1, got, 1e-12)
	}
	// twelve monthly compoundings match one annual compounding
	rate := MonthlyRate(stddec.NewFromFloat(0.05))
	grown := Compound(stddec.NewFromInt(1000), rate, 12)
	assert.InDelta(t, 1050.0, grown.InexactFloat64(), 1e-6)

	assert.True(t, MonthlyRate(stddec.NewFromInt(-1)).Equal(stddec.NewFromInt(-1)))
}

func TestHelpers(t *testing.T) {
	assert.True(t, NonNegative(stddec.NewFromInt(-5)).IsZero())
	assert.True(t, NonNegative(stddec.NewFromInt(5)).Equal(stddec.NewFromInt(5)))
	assert.True(t, Clamp(stddec.NewFromInt(15), stddec.Zero, stddec.NewFromInt(10)).Equal(stddec.NewFromInt(10)))
	assert.True(t, Clamp(stddec.NewFromInt(-1), stddec.Zero, stddec.NewFromInt(10)).IsZero())
	assert.True(t, Sum(stddec.NewFromInt(1), stddec.NewFromInt(2), stddec.NewFromInt(3)).Equal(stddec.NewFromInt(6)))
	assert.True(t, Percent(stddec.NewFromFloat(0.05)).Equal(stddec.NewFromInt(5)))
	assert.True(t, Compound(stddec.NewFromInt(100), stddec.NewFromFloat(0.1), 0).Equal(stddec.NewFromInt(100)))
	assert.True(t, Grow(stddec.NewFromInt(100), stddec.NewFromFloat(0.1)).Equal(stddec.NewFromInt(110)))
	assert.True(t, ApproxEqual(stddec.NewFromFloat(1.001), stddec.NewFromInt(1), stddec.NewFromFloat(0.01)))
}
