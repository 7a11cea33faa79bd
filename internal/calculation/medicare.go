package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/reference"
	"github.com/rpgo/lifeplan/pkg/dateutil"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

// MedicareLookbackYears is how far back MAGI is taken for IRMAA
const MedicareLookbackYears = 2

// MedicareCalculator handles Medicare Part B premium calculations
type MedicareCalculator struct {
	Tables *reference.Tables
}

// NewMedicareCalculator creates a Medicare calculator over tables
func NewMedicareCalculator(tables *reference.Tables) *MedicareCalculator {
	return &MedicareCalculator{Tables: tables}
}

// PartBPremium returns the monthly Part B premium for year including the IRMAA
// surcharge of the highest tier magi exceeds. Years past the last table are
// inflated at the Medicare inflation rate.
func (mc *MedicareCalculator) PartBPremium(year int, status reference.FilingStatus, magi decimal.Decimal) decimal.Decimal {
	yt := mc.Tables.Year(year)
	if yt == nil {
		return decimal.Zero
	}

	premium := yt.Medicare.PartBPremium.Add(irmaaSurcharge(yt.Medicare.IRMAA, status, magi))
	if years := year - yt.Year; years > 0 {
		premium = dec.Compound(premium, mc.Tables.MedicareInflationRate, years)
	}
	return dec.Cents(premium)
}

// irmaaSurcharge returns the surcharge of the highest tier exceeded
func irmaaSurcharge(tiers []reference.IRMAATier, status reference.FilingStatus, magi decimal.Decimal) decimal.Decimal {
	surcharge := decimal.Zero
	for _, tier := range tiers {
		threshold := tier.SingleThreshold
		if status.IsJoint() {
			threshold = tier.JointThreshold
		}
		if !magi.GreaterThan(threshold) {
			break
		}
		surcharge = tier.MonthlySurcharge
	}
	return surcharge
}

// MonthlyPremium returns the premium due in the month of date, zero before Medicare eligibility
func (mc *MedicareCalculator) MonthlyPremium(birthDate, date time.Time, status reference.FilingStatus, magi decimal.Decimal) decimal.Decimal {
	if !dateutil.IsMedicareEligible(birthDate, date) {
		return decimal.Zero
	}
	return mc.PartBPremium(date.Year(), status, magi)
}
