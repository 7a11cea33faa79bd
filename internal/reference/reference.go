package reference

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// FilingStatus identifies a federal income tax filing status
type FilingStatus string

const (
	Single                  FilingStatus = "single"
	MarriedFilingJointly    FilingStatus = "married_filing_jointly"
	MarriedFilingSeparately FilingStatus = "married_filing_separately"
	HeadOfHousehold         FilingStatus = "head_of_household"
)

// ParseFilingStatus accepts the canonical names plus the short forms used in profiles
// (mfj, mfs, hoh). Unknown values map to Single.
func ParseFilingStatus(s string) FilingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mfj", "married", "joint", string(MarriedFilingJointly):
		return MarriedFilingJointly
	case "mfs", string(MarriedFilingSeparately):
		return MarriedFilingSeparately
	case "hoh", string(HeadOfHousehold):
		return HeadOfHousehold
	default:
		return Single
	}
}

// IsJoint reports whether the status files a joint return
func (fs FilingStatus) IsJoint() bool { return fs == MarriedFilingJointly }

// Gender selects the life-expectancy column
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// TaxBracket is one marginal bracket. A zero Upper means the bracket is unbounded.
type TaxBracket struct {
	Lower decimal.Decimal `json:"lower"`
	Upper decimal.Decimal `json:"upper"`
	Rate  decimal.Decimal `json:"rate"`
}

// Unbounded reports whether the bracket has no upper limit
func (b TaxBracket) Unbounded() bool { return b.Upper.IsZero() }

// FilingTable holds every filing-status dependent figure for a tax year
type FilingTable struct {
	Brackets                    []TaxBracket    `json:"brackets"`
	StandardDeduction           decimal.Decimal `json:"standard_deduction"`
	AdditionalDeduction         decimal.Decimal `json:"additional_deduction"` // per taxpayer aged 65+
	NIITThreshold               decimal.Decimal `json:"niit_threshold"`
	AdditionalMedicareThreshold decimal.Decimal `json:"additional_medicare_threshold"`
	AMTExemption                decimal.Decimal `json:"amt_exemption"`
	AMTPhaseOutStart            decimal.Decimal `json:"amt_phase_out_start"`
	AMTBracketBreak             decimal.Decimal `json:"amt_bracket_break"`
	SSBaseAmount                decimal.Decimal `json:"ss_base_amount"`
	SSAdjustedBase              decimal.Decimal `json:"ss_adjusted_base"`
}

// FICA holds payroll tax parameters
type FICA struct {
	SSWageBase             decimal.Decimal `json:"ss_wage_base"`
	SSRate                 decimal.Decimal `json:"ss_rate"`
	MedicareRate           decimal.Decimal `json:"medicare_rate"`
	AdditionalMedicareRate decimal.Decimal `json:"additional_medicare_rate"`
}

// ContributionLimits holds the IRS annual contribution limits
type ContributionLimits struct {
	Elective401k     decimal.Decimal `json:"elective_401k"`
	CatchUp401k      decimal.Decimal `json:"catch_up_401k"`       // age 50+
	SuperCatchUp401k decimal.Decimal `json:"super_catch_up_401k"` // ages 60-63
	TotalAdditions   decimal.Decimal `json:"total_additions"`     // 415(c), excluding catch-up
	IRA              decimal.Decimal `json:"ira"`
	IRACatchUp       decimal.Decimal `json:"ira_catch_up"`
	HSASelf          decimal.Decimal `json:"hsa_self"`
	HSAFamily        decimal.Decimal `json:"hsa_family"`
	HSACatchUp       decimal.Decimal `json:"hsa_catch_up"` // age 55+
}

// IRMAATier is an income-related surcharge tier for Medicare Part B
type IRMAATier struct {
	SingleThreshold  decimal.Decimal `json:"single_threshold"`
	JointThreshold   decimal.Decimal `json:"joint_threshold"`
	MonthlySurcharge decimal.Decimal `json:"monthly_surcharge"`
}

// Medicare holds Part B premium parameters
type Medicare struct {
	PartBPremium decimal.Decimal `json:"part_b_premium"` // monthly
	IRMAA        []IRMAATier     `json:"irmaa"`
}

// YearTable is the full set of reference figures for one tax year
type YearTable struct {
	Year            int                           `json:"year"`
	Filing          map[FilingStatus]*FilingTable `json:"filing"`
	FICA            FICA                          `json:"fica"`
	NIITRate        decimal.Decimal               `json:"niit_rate"`
	AMTLowRate      decimal.Decimal               `json:"amt_low_rate"`
	AMTHighRate     decimal.Decimal               `json:"amt_high_rate"`
	AMTPhaseOutRate decimal.Decimal               `json:"amt_phase_out_rate"`
	Limits          ContributionLimits            `json:"limits"`
	Medicare        Medicare                      `json:"medicare"`
}

// ForStatus returns the filing table for a status, falling back to Single
func (yt *YearTable) ForStatus(status FilingStatus) *FilingTable {
	if ft, ok := yt.Filing[status]; ok && ft != nil {
		return ft
	}
	return yt.Filing[Single]
}

// Tables is the complete reference data set consumed by the simulation.
// It is read-only once built and safe to share between concurrent runs.
type Tables struct {
	Years                 map[int]*YearTable         `json:"years"`
	UniformLifetime       map[int]decimal.Decimal    `json:"uniform_lifetime"`
	LifeExpectancyTable   map[Gender]map[int]float64 `json:"life_expectancy"`
	RothBasisFraction     decimal.Decimal            `json:"roth_basis_fraction"`
	EarlyWithdrawalRate   decimal.Decimal            `json:"early_withdrawal_penalty_rate"`
	HSAPenaltyRate        decimal.Decimal            `json:"hsa_penalty_rate"`
	MedicareInflationRate decimal.Decimal            `json:"medicare_inflation_rate"`
	years                 []int
}

func sortedYears(m map[int]*YearTable) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// index caches the sorted year list; call after mutating Years
func (t *Tables) index() {
	t.years = sortedYears(t.Years)
}

// AvailableYears returns the years with explicit data in ascending order
func (t *Tables) AvailableYears() []int {
	if len(t.years) != len(t.Years) {
		return sortedYears(t.Years)
	}
	return append([]int(nil), t.years...)
}

// Year returns the table for the greatest year <= y, or the earliest table when y
// precedes all data. It returns nil only when the set is empty.
func (t *Tables) Year(y int) *YearTable {
	if yt, ok := t.Years[y]; ok {
		return yt
	}
	years := t.AvailableYears()
	if len(years) == 0 {
		return nil
	}
	i := sort.SearchInts(years, y+1) - 1
	if i < 0 {
		i = 0
	}
	return t.Years[years[i]]
}

// HasYear reports whether explicit data exists for y
func (t *Tables) HasYear(y int) bool {
	_, ok := t.Years[y]
	return ok
}

// Filing returns the filing table for a year and status using year fallback
func (t *Tables) Filing(year int, status FilingStatus) *FilingTable {
	yt := t.Year(year)
	if yt == nil {
		return nil
	}
	return yt.ForStatus(status)
}

// Limits returns the contribution limits for a year using year fallback
func (t *Tables) Limits(year int) ContributionLimits {
	yt := t.Year(year)
	if yt == nil {
		return ContributionLimits{}
	}
	return yt.Limits
}

// UniformLifetimeDivisor returns the IRS Uniform Lifetime Table distribution period.
// Ages below the table return zero (no RMD); ages beyond it use the last entry.
func (t *Tables) UniformLifetimeDivisor(age int) decimal.Decimal {
	if d, ok := t.UniformLifetime[age]; ok {
		return d
	}
	maxAge, minAge := 0, 0
	for a := range t.UniformLifetime {
		if maxAge == 0 || a > maxAge {
			maxAge = a
		}
		if minAge == 0 || a < minAge {
			minAge = a
		}
	}
	if maxAge == 0 || age < minAge {
		return decimal.Zero
	}
	return t.UniformLifetime[maxAge]
}

// LifeExpectancy returns the remaining expected years of life at age, interpolating
// linearly between tabulated ages. Unknown genders use the average of both columns.
func (t *Tables) LifeExpectancy(gender Gender, age int) float64 {
	col, ok := t.LifeExpectancyTable[gender]
	if !ok {
		m := interpolate(t.LifeExpectancyTable[Male], age)
		f := interpolate(t.LifeExpectancyTable[Female], age)
		return (m + f) / 2
	}
	return interpolate(col, age)
}

func interpolate(col map[int]float64, age int) float64 {
	if len(col) == 0 {
		return 0
	}
	if v, ok := col[age]; ok {
		return v
	}
	ages := make([]int, 0, len(col))
	for a := range col {
		ages = append(ages, a)
	}
	sort.Ints(ages)
	if age <= ages[0] {
		return col[ages[0]]
	}
	last := ages[len(ages)-1]
	if age >= last {
		return col[last]
	}
	i := sort.SearchInts(ages, age)
	lo, hi := ages[i-1], ages[i]
	frac := float64(age-lo) / float64(hi-lo)
	return col[lo] + (col[hi]-col[lo])*frac
}
