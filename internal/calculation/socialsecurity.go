package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/pkg/dateutil"
)

const (
	earliestClaimMonths = 62 * 12
	latestCreditMonths  = 70 * 12
)

// perMonth returns months * numerator / denominator, dividing last to keep the
// whole-month results exact
func perMonth(months int, numerator, denominator int64) decimal.Decimal {
	return decimal.NewFromInt(int64(months) * numerator).Div(decimal.NewFromInt(denominator))
}

// SocialSecurityCalculator handles Social Security benefit calculations
type SocialSecurityCalculator struct {
	FullRetirementAge int             // months
	BenefitAtFRA      decimal.Decimal // monthly primary insurance amount
}

// NewSocialSecurityCalculator creates a calculator for a person born on birthDate
func NewSocialSecurityCalculator(birthDate time.Time, benefitAtFRA decimal.Decimal) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{
		FullRetirementAge: dateutil.FullRetirementAgeMonths(birthDate),
		BenefitAtFRA:      benefitAtFRA,
	}
}

// BenefitAtClaim returns the monthly benefit when claiming at claimMonths of age.
// Claiming before 62 is not possible and yields zero.
func (ssc *SocialSecurityCalculator) BenefitAtClaim(claimMonths int) decimal.Decimal {
	if claimMonths < earliestClaimMonths {
		return decimal.Zero
	}

	if claimMonths < ssc.FullRetirementAge {
		// Early retirement reduction
		monthsEarly := ssc.FullRetirementAge - claimMonths
		// 5/9 of 1% for the first 36 months, 5/12 of 1% beyond
		reduction := perMonth(min(monthsEarly, 36), 5, 900)
		if monthsEarly > 36 {
			reduction = reduction.Add(perMonth(monthsEarly-36, 5, 1200))
		}
		return ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Sub(reduction))
	}

	// Delayed retirement credits stop accruing at 70
	monthsDelayed := min(claimMonths, latestCreditMonths) - ssc.FullRetirementAge
	if monthsDelayed > 0 {
		credit := perMonth(monthsDelayed, 2, 300) // 2/3 of 1% per month
		return ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Add(credit))
	}

	return ssc.BenefitAtFRA
}

// ApplySSCOLA applies the annual Social Security COLA
func ApplySSCOLA(currentBenefit decimal.Decimal, colaRate decimal.Decimal) decimal.Decimal {
	return currentBenefit.Mul(decimal.NewFromInt(1).Add(colaRate))
}
