package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/account"
)

// Configuration represents the complete input configuration
type Configuration struct {
	Profile    ProfileConfig    `yaml:"profile" json:"profile"`
	Accounts   []AccountConfig  `yaml:"accounts" json:"accounts"`
	Jobs       []Job            `yaml:"jobs" json:"jobs"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Scenarios  []ScenarioConfig `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// ProfileConfig holds the personal details of the simulated person
type ProfileConfig struct {
	Name           string          `yaml:"name" json:"name"`
	BirthDate      time.Time       `yaml:"birth_date" json:"birth_date"`
	Gender         string          `yaml:"gender,omitempty" json:"gender,omitempty"`
	FilingStatus   string          `yaml:"filing_status" json:"filing_status"` // single|mfj|mfs|hoh
	RetirementAge  int             `yaml:"retirement_age" json:"retirement_age"`
	PartTimeAge    int             `yaml:"part_time_age,omitempty" json:"part_time_age,omitempty"`
	PartTimeFactor decimal.Decimal `yaml:"part_time_factor,omitempty" json:"part_time_factor,omitempty"` // Default: 0.5

	SSClaimAge     int             `yaml:"ss_claim_age" json:"ss_claim_age"`
	SSClaimMonths  int             `yaml:"ss_claim_months,omitempty" json:"ss_claim_months,omitempty"`
	SSBenefitAtFRA decimal.Decimal `yaml:"ss_benefit_fra" json:"ss_benefit_fra"` // Monthly at Full Retirement Age

	EssentialExpenses     decimal.Decimal `yaml:"essential_expenses" json:"essential_expenses"`         // Annual
	DiscretionaryExpenses decimal.Decimal `yaml:"discretionary_expenses" json:"discretionary_expenses"` // Annual
	InflationRate         decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`

	EmergencyFund *EmergencyFund `yaml:"emergency_fund,omitempty" json:"emergency_fund,omitempty"`
	HSACoverage   string         `yaml:"hsa_coverage,omitempty" json:"hsa_coverage,omitempty"`       // self|family
	MedicarePartB *bool          `yaml:"medicare_part_b,omitempty" json:"medicare_part_b,omitempty"` // Default: true
}

// AccountConfig describes an account and its opening balance
type AccountConfig struct {
	Name         string          `yaml:"name" json:"name"`
	Kind         account.Kind    `yaml:"kind" json:"kind"`
	Balance      decimal.Decimal `yaml:"balance" json:"balance"`
	AnnualReturn decimal.Decimal `yaml:"annual_return" json:"annual_return"`
	OpenDate     time.Time       `yaml:"open_date,omitempty" json:"open_date,omitempty"` // defaults to the simulation start
}

// SimulationConfig controls the run window
type SimulationConfig struct {
	StartDate     time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"` // defaults to the current month
	EndAge        int       `yaml:"end_age,omitempty" json:"end_age,omitempty"`       // Default: 100
	ReferenceFile string    `yaml:"reference_file,omitempty" json:"reference_file,omitempty"`
}

// ScenarioConfig overrides parts of the base profile for a what-if run
type ScenarioConfig struct {
	Name                  string           `yaml:"name" json:"name"`
	RetirementAge         *int             `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty"`
	PartTimeAge           *int             `yaml:"part_time_age,omitempty" json:"part_time_age,omitempty"`
	SSClaimAge            *int             `yaml:"ss_claim_age,omitempty" json:"ss_claim_age,omitempty"`
	SSClaimMonths         *int             `yaml:"ss_claim_months,omitempty" json:"ss_claim_months,omitempty"`
	EssentialExpenses     *decimal.Decimal `yaml:"essential_expenses,omitempty" json:"essential_expenses,omitempty"`
	DiscretionaryExpenses *decimal.Decimal `yaml:"discretionary_expenses,omitempty" json:"discretionary_expenses,omitempty"`
	InflationRate         *decimal.Decimal `yaml:"inflation_rate,omitempty" json:"inflation_rate,omitempty"`
	AnnualReturn          *decimal.Decimal `yaml:"annual_return,omitempty" json:"annual_return,omitempty"` // invested accounts only
}

// Apply writes the scenario overrides onto a person, normally a clone of the base
func (sc *ScenarioConfig) Apply(p *Person) {
	if sc.RetirementAge != nil {
		p.RetirementAge = *sc.RetirementAge
	}
	if sc.PartTimeAge != nil {
		p.PartTimeAge = *sc.PartTimeAge
	}
	if sc.SSClaimAge != nil {
		p.SSClaimAge = *sc.SSClaimAge
	}
	if sc.SSClaimMonths != nil {
		p.SSClaimMonths = *sc.SSClaimMonths
	}
	if sc.EssentialExpenses != nil {
		p.EssentialExpenses = *sc.EssentialExpenses
	}
	if sc.DiscretionaryExpenses != nil {
		p.DiscretionaryExpenses = *sc.DiscretionaryExpenses
	}
	if sc.InflationRate != nil {
		p.InflationRate = *sc.InflationRate
	}
	if sc.AnnualReturn != nil {
		for _, a := range p.Accounts {
			if a.Kind != account.Savings {
				a.AnnualRate = *sc.AnnualReturn
			}
		}
	}
}
