package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSocialSecurityCalculator_BenefitAtClaim(t *testing.T) {
	ssc := NewSocialSecurityCalculator(ymd(1960, 3, 10), amt(2000))
	assert.Equal(t, 67*12, ssc.FullRetirementAge)

	tests := []struct {
		name        string
		claimMonths int
		expected    float64
	}{
		{"before eligibility", 61 * 12, 0},
		{"earliest claim", 62 * 12, 1400},      // 20% + 10% reduction
		{"within 36 months", 65 * 12, 1733.33}, // 24 * 5/9%
		{"full retirement age", 67 * 12, 2000},
		{"one year of credits", 68 * 12, 2160},
		{"credits stop at 70", 70 * 12, 2480},
		{"no credits after 70", 72 * 12, 2480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, tt.expected, ssc.BenefitAtClaim(tt.claimMonths))
		})
	}
}

func TestApplySSCOLA(t *testing.T) {
	assertAmount(t, 2050, ApplySSCOLA(amt(2000), amt(0.025)))
}
