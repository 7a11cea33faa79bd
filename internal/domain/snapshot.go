package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRow is the state of one account during a simulated month
type AccountRow struct {
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Deposits      decimal.Decimal `json:"deposits"`
	Withdrawals   decimal.Decimal `json:"withdrawals"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
}

// Snapshot is the month-end record of a simulation step
type Snapshot struct {
	Date  time.Time `json:"date"`
	Age   int       `json:"age"`
	Phase string    `json:"phase"`

	// Income
	Salary         decimal.Decimal `json:"salary"`
	SocialSecurity decimal.Decimal `json:"social_security"`
	TotalIncome    decimal.Decimal `json:"total_income"`

	// Spending
	EssentialExpenses     decimal.Decimal `json:"essential_expenses"`
	DiscretionaryExpenses decimal.Decimal `json:"discretionary_expenses"`
	HealthcarePremiums    decimal.Decimal `json:"healthcare_premiums"`
	Withdrawals           decimal.Decimal `json:"withdrawals"` // drawn for spending, taxes due and RMD top-ups
	Shortfall             decimal.Decimal `json:"shortfall"`

	RMD   decimal.Decimal `json:"rmd"`
	Taxes decimal.Decimal `json:"taxes"`

	Accounts []AccountRow    `json:"accounts"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

// TotalExpenses returns all spending in the month
func (s *Snapshot) TotalExpenses() decimal.Decimal {
	return s.EssentialExpenses.Add(s.DiscretionaryExpenses).Add(s.HealthcarePremiums)
}

// Account returns the row for an account name, or nil
func (s *Snapshot) Account(name string) *AccountRow {
	for i := range s.Accounts {
		if s.Accounts[i].Name == name {
			return &s.Accounts[i]
		}
	}
	return nil
}

// Totals aggregates a whole run
type Totals struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Taxes       decimal.Decimal `json:"taxes"`
	Penalties   decimal.Decimal `json:"penalties"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	RMD         decimal.Decimal `json:"rmd"`
	Shortfalls  int             `json:"shortfall_months"`
}

// SimulationResult is the output of one engine run
type SimulationResult struct {
	Name              string          `json:"name"`
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	Snapshots         []Snapshot      `json:"snapshots"`
	Events            []Event         `json:"events"`
	Totals            Totals          `json:"totals"`
	DepletionDate     *time.Time      `json:"depletion_date,omitempty"`
	LifeExpectancyAge int             `json:"life_expectancy_age"`
	FinalNetWorth     decimal.Decimal `json:"final_net_worth"`
	PeakNetWorth      decimal.Decimal `json:"peak_net_worth"`
	PeakNetWorthDate  time.Time       `json:"peak_net_worth_date"`
}

// Last returns the final snapshot, or nil for an empty run
func (r *SimulationResult) Last() *Snapshot {
	if len(r.Snapshots) == 0 {
		return nil
	}
	return &r.Snapshots[len(r.Snapshots)-1]
}

// EventsOfKind filters events by kind
func (r *SimulationResult) EventsOfKind(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// SnapshotAt returns the snapshot for the month containing date, or nil
func (r *SimulationResult) SnapshotAt(date time.Time) *Snapshot {
	for i := range r.Snapshots {
		s := &r.Snapshots[i]
		if s.Date.Year() == date.Year() && s.Date.Month() == date.Month() {
			return s
		}
	}
	return nil
}

// ScenarioSummary provides the key metrics of one scenario run
type ScenarioSummary struct {
	Name            string            `json:"name"`
	RetirementAge   int               `json:"retirement_age"`
	SSClaimAge      int               `json:"ss_claim_age"`
	FinalNetWorth   decimal.Decimal   `json:"final_net_worth"`
	PeakNetWorth    decimal.Decimal   `json:"peak_net_worth"`
	TotalTaxes      decimal.Decimal   `json:"total_taxes"`
	TotalPenalties  decimal.Decimal   `json:"total_penalties"`
	TotalShortfall  decimal.Decimal   `json:"total_shortfall"`
	ShortfallMonths int               `json:"shortfall_months"`
	DepletionAge    int               `json:"depletion_age,omitempty"` // zero when never depleted
	Result          *SimulationResult `json:"-"`
}

// ScenarioComparison ranks scenarios run from the same base profile
type ScenarioComparison struct {
	Scenarios        []ScenarioSummary `json:"scenarios"`
	BestForNetWorth  string            `json:"best_for_net_worth"`
	BestForLongevity string            `json:"best_for_longevity"`
	LowestTaxes      string            `json:"lowest_taxes"`
	Recommendations  []string          `json:"recommendations"`
}
