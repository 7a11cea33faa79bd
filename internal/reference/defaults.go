package reference

import (
	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func r(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// brackets builds a bracket ladder from the upper bounds of every bracket but the last
func brackets(rates []string, uppers ...int64) []TaxBracket {
	out := make([]TaxBracket, 0, len(rates))
	lower := decimal.Zero
	for i, rate := range rates {
		b := TaxBracket{Lower: lower, Rate: r(rate)}
		if i < len(uppers) {
			b.Upper = d(uppers[i])
			lower = b.Upper
		}
		out = append(out, b)
	}
	return out
}

var federalRates = []string{"0.10", "0.12", "0.22", "0.24", "0.32", "0.35", "0.37"}

// status-dependent thresholds that are not indexed for inflation
func fixedThresholds(ft *FilingTable, status FilingStatus) *FilingTable {
	switch status {
	case MarriedFilingJointly:
		ft.NIITThreshold, ft.AdditionalMedicareThreshold = d(250000), d(250000)
		ft.SSBaseAmount, ft.SSAdjustedBase = d(32000), d(44000)
	case MarriedFilingSeparately:
		ft.NIITThreshold, ft.AdditionalMedicareThreshold = d(125000), d(125000)
		ft.SSBaseAmount, ft.SSAdjustedBase = decimal.Zero, decimal.Zero
	default:
		ft.NIITThreshold, ft.AdditionalMedicareThreshold = d(200000), d(200000)
		ft.SSBaseAmount, ft.SSAdjustedBase = d(25000), d(34000)
	}
	return ft
}

func standardFICA(wageBase int64) FICA {
	return FICA{
		SSWageBase:             d(wageBase),
		SSRate:                 r("0.062"),
		MedicareRate:           r("0.0145"),
		AdditionalMedicareRate: r("0.009"),
	}
}

func irmaa(single, joint []int64, surcharges []string) []IRMAATier {
	tiers := make([]IRMAATier, len(single))
	for i := range single {
		tiers[i] = IRMAATier{
			SingleThreshold:  d(single[i]),
			JointThreshold:   d(joint[i]),
			MonthlySurcharge: r(surcharges[i]),
		}
	}
	return tiers
}

func year2024() *YearTable {
	return &YearTable{
		Year: 2024,
		Filing: map[FilingStatus]*FilingTable{
			Single: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 11600, 47150, 100525, 191950, 243725, 609350),
				StandardDeduction: d(14600), AdditionalDeduction: d(1950),
				AMTExemption: d(85700), AMTPhaseOutStart: d(609350), AMTBracketBreak: d(232600),
			}, Single),
			MarriedFilingJointly: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 23200, 94300, 201050, 383900, 487450, 731200),
				StandardDeduction: d(29200), AdditionalDeduction: d(1550),
				AMTExemption: d(133300), AMTPhaseOutStart: d(1218700), AMTBracketBreak: d(232600),
			}, MarriedFilingJointly),
			MarriedFilingSeparately: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 11600, 47150, 100525, 191950, 243725, 365600),
				StandardDeduction: d(14600), AdditionalDeduction: d(1550),
				AMTExemption: d(66650), AMTPhaseOutStart: d(609350), AMTBracketBreak: d(116300),
			}, MarriedFilingSeparately),
			HeadOfHousehold: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 16550, 63100, 100500, 191950, 243700, 609350),
				StandardDeduction: d(21900), AdditionalDeduction: d(1950),
				AMTExemption: d(85700), AMTPhaseOutStart: d(609350), AMTBracketBreak: d(232600),
			}, HeadOfHousehold),
		},
		FICA:            standardFICA(168600),
		NIITRate:        r("0.038"),
		AMTLowRate:      r("0.26"),
		AMTHighRate:     r("0.28"),
		AMTPhaseOutRate: r("0.25"),
		Limits: ContributionLimits{
			Elective401k: d(23000), CatchUp401k: d(7500), SuperCatchUp401k: d(7500),
			TotalAdditions: d(69000),
			IRA:            d(7000), IRACatchUp: d(1000),
			HSASelf: d(4150), HSAFamily: d(8300), HSACatchUp: d(1000),
		},
		Medicare: Medicare{
			PartBPremium: r("174.70"),
			IRMAA: irmaa(
				[]int64{103000, 129000, 161000, 193000, 500000},
				[]int64{206000, 258000, 322000, 386000, 750000},
				[]string{"69.90", "174.70", "279.50", "384.30", "419.30"},
			),
		},
	}
}

func year2025() *YearTable {
	return &YearTable{
		Year: 2025,
		Filing: map[FilingStatus]*FilingTable{
			Single: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 11925, 48475, 103350, 197300, 250525, 626350),
				StandardDeduction: d(15750), AdditionalDeduction: d(2000),
				AMTExemption: d(88100), AMTPhaseOutStart: d(626350), AMTBracketBreak: d(239100),
			}, Single),
			MarriedFilingJointly: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 23850, 96950, 206700, 394600, 501050, 751600),
				StandardDeduction: d(31500), AdditionalDeduction: d(1600),
				AMTExemption: d(137000), AMTPhaseOutStart: d(1252700), AMTBracketBreak: d(239100),
			}, MarriedFilingJointly),
			MarriedFilingSeparately: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 11925, 48475, 103350, 197300, 250525, 375800),
				StandardDeduction: d(15750), AdditionalDeduction: d(1600),
				AMTExemption: d(68500), AMTPhaseOutStart: d(626350), AMTBracketBreak: d(119550),
			}, MarriedFilingSeparately),
			HeadOfHousehold: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 17000, 64850, 103350, 197300, 250500, 626350),
				StandardDeduction: d(23625), AdditionalDeduction: d(2000),
				AMTExemption: d(88100), AMTPhaseOutStart: d(626350), AMTBracketBreak: d(239100),
			}, HeadOfHousehold),
		},
		FICA:            standardFICA(176100),
		NIITRate:        r("0.038"),
		AMTLowRate:      r("0.26"),
		AMTHighRate:     r("0.28"),
		AMTPhaseOutRate: r("0.25"),
		Limits: ContributionLimits{
			Elective401k: d(23500), CatchUp401k: d(7500), SuperCatchUp401k: d(11250),
			TotalAdditions: d(70000),
			IRA:            d(7000), IRACatchUp: d(1000),
			HSASelf: d(4300), HSAFamily: d(8550), HSACatchUp: d(1000),
		},
		Medicare: Medicare{
			PartBPremium: r("185.00"),
			IRMAA: irmaa(
				[]int64{106000, 133000, 167000, 200000, 500000},
				[]int64{212000, 266000, 334000, 400000, 750000},
				[]string{"74.00", "185.00", "295.90", "406.90", "443.90"},
			),
		},
	}
}

func year2026() *YearTable {
	return &YearTable{
		Year: 2026,
		Filing: map[FilingStatus]*FilingTable{
			Single: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 12400, 50400, 105700, 201775, 256225, 640600),
				StandardDeduction: d(16100), AdditionalDeduction: d(2050),
				AMTExemption: d(90100), AMTPhaseOutStart: d(500000), AMTBracketBreak: d(244500),
			}, Single),
			MarriedFilingJointly: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 24800, 100800, 211400, 403550, 512450, 768700),
				StandardDeduction: d(32200), AdditionalDeduction: d(1650),
				AMTExemption: d(140200), AMTPhaseOutStart: d(1000000), AMTBracketBreak: d(244500),
			}, MarriedFilingJointly),
			MarriedFilingSeparately: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 12400, 50400, 105700, 201775, 256225, 384350),
				StandardDeduction: d(16100), AdditionalDeduction: d(1650),
				AMTExemption: d(70100), AMTPhaseOutStart: d(500000), AMTBracketBreak: d(122250),
			}, MarriedFilingSeparately),
			HeadOfHousehold: fixedThresholds(&FilingTable{
				Brackets:          brackets(federalRates, 17700, 67450, 105700, 201750, 256200, 640600),
				StandardDeduction: d(24150), AdditionalDeduction: d(2050),
				AMTExemption: d(90100), AMTPhaseOutStart: d(500000), AMTBracketBreak: d(244500),
			}, HeadOfHousehold),
		},
		FICA:            standardFICA(184500),
		NIITRate:        r("0.038"),
		AMTLowRate:      r("0.26"),
		AMTHighRate:     r("0.28"),
		AMTPhaseOutRate: r("0.50"),
		Limits: ContributionLimits{
			Elective401k: d(24500), CatchUp401k: d(8000), SuperCatchUp401k: d(11250),
			TotalAdditions: d(72000),
			IRA:            d(7500), IRACatchUp: d(1100),
			HSASelf: d(4400), HSAFamily: d(8750), HSACatchUp: d(1000),
		},
		Medicare: Medicare{
			PartBPremium: r("202.90"),
			IRMAA: irmaa(
				[]int64{109000, 137000, 171000, 205000, 500000},
				[]int64{218000, 274000, 342000, 410000, 750000},
				[]string{"81.20", "202.90", "324.60", "446.30", "487.00"},
			),
		},
	}
}

// uniformLifetime is the IRS Uniform Lifetime Table (Pub. 590-B, 2022 and later)
var uniformLifetime = map[int]string{
	72: "27.4", 73: "26.5", 74: "25.5", 75: "24.6", 76: "23.7", 77: "22.9", 78: "22.0",
	79: "21.1", 80: "20.2", 81: "19.4", 82: "18.5", 83: "17.7", 84: "16.8", 85: "16.0",
	86: "15.2", 87: "14.4", 88: "13.7", 89: "12.9", 90: "12.2", 91: "11.5", 92: "10.8",
	93: "10.1", 94: "9.5", 95: "8.9", 96: "8.4", 97: "7.8", 98: "7.3", 99: "6.8",
	100: "6.4", 101: "6.0", 102: "5.6", 103: "5.2", 104: "4.9", 105: "4.6", 106: "4.3",
	107: "4.1", 108: "3.9", 109: "3.7", 110: "3.5", 111: "3.4", 112: "3.3", 113: "3.1",
	114: "3.0", 115: "2.9", 116: "2.8", 117: "2.7", 118: "2.5", 119: "2.3", 120: "2.0",
}

// period life table, remaining years at age (SSA 2021 period table, five-year points)
var lifeExpectancy = map[Gender]map[int]float64{
	Male: {
		0: 74.1, 5: 69.7, 10: 64.7, 15: 59.8, 20: 55.0, 25: 50.4, 30: 45.9, 35: 41.5,
		40: 37.1, 45: 32.8, 50: 28.6, 55: 24.6, 60: 21.0, 65: 17.5, 70: 14.2, 75: 11.2,
		80: 8.5, 85: 6.2, 90: 4.4, 95: 3.1, 100: 2.2, 105: 1.6, 110: 1.2, 119: 0.6,
	},
	Female: {
		0: 79.9, 5: 75.4, 10: 70.5, 15: 65.5, 20: 60.6, 25: 55.8, 30: 51.0, 35: 46.3,
		40: 41.6, 45: 37.0, 50: 32.5, 55: 28.2, 60: 24.1, 65: 20.1, 70: 16.4, 75: 12.9,
		80: 9.8, 85: 7.2, 90: 5.0, 95: 3.5, 100: 2.4, 105: 1.7, 110: 1.2, 119: 0.6,
	},
}

// Default returns a fresh copy of the built-in reference tables
func Default() *Tables {
	t := &Tables{
		Years: map[int]*YearTable{
			2024: year2024(),
			2025: year2025(),
			2026: year2026(),
		},
		UniformLifetime:       make(map[int]decimal.Decimal, len(uniformLifetime)),
		LifeExpectancyTable:   make(map[Gender]map[int]float64, len(lifeExpectancy)),
		RothBasisFraction:     r("0.25"),
		EarlyWithdrawalRate:   r("0.10"),
		HSAPenaltyRate:        r("0.20"),
		MedicareInflationRate: r("0.05"),
	}
	for age, v := range uniformLifetime {
		t.UniformLifetime[age] = r(v)
	}
	for g, col := range lifeExpectancy {
		c := make(map[int]float64, len(col))
		for age, v := range col {
			c[age] = v
		}
		t.LifeExpectancyTable[g] = c
	}
	t.index()
	return t
}
