package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
	"github.com/rpgo/lifeplan/pkg/dateutil"
)

// ErrInvalidConfiguration is wrapped by every validation failure
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DefaultCashAccount names the savings account added to profiles that have none
const DefaultCashAccount = account.DefaultCashAccount

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a YAML profile
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML profile
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

func outsideUnit(d decimal.Decimal) bool {
	return d.LessThan(zero) || d.GreaterThan(one)
}

// ValidateConfiguration rejects profiles the simulator cannot run. Everything past
// this boundary is assumed well formed.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateProfile(&config.Profile); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i, a := range config.Accounts {
		if err := ip.validateAccount(i, &a); err != nil {
			return err
		}
		if seen[a.Name] {
			return invalid("account %q is defined twice", a.Name)
		}
		seen[a.Name] = true
	}

	for i := range config.Jobs {
		if err := ip.validateJob(i, &config.Jobs[i]); err != nil {
			return err
		}
	}

	if config.Simulation.EndAge < 0 || config.Simulation.EndAge > 120 {
		return invalid("simulation end age must be between 1 and 120")
	}

	names := make(map[string]bool)
	for i, sc := range config.Scenarios {
		if err := ip.validateScenario(i, &sc); err != nil {
			return err
		}
		if names[sc.Name] {
			return invalid("scenario %q is defined twice", sc.Name)
		}
		names[sc.Name] = true
	}

	return nil
}

// validateProfile validates the personal details
func (ip *InputParser) validateProfile(p *domain.ProfileConfig) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("profile name is required")
	}
	if p.BirthDate.IsZero() {
		return invalid("birth date is required")
	}
	switch strings.ToLower(strings.TrimSpace(p.FilingStatus)) {
	case "", "single", "mfj", "married", "joint", "mfs", "hoh",
		string(reference.MarriedFilingJointly), string(reference.MarriedFilingSeparately), string(reference.HeadOfHousehold):
	default:
		return invalid("unknown filing status %q", p.FilingStatus)
	}
	if p.RetirementAge < 0 || p.RetirementAge > 100 {
		return invalid("retirement age must be between 0 and 100")
	}
	if p.PartTimeAge < 0 || (p.PartTimeAge > 0 && p.RetirementAge > 0 && p.PartTimeAge >= p.RetirementAge) {
		return invalid("part-time age must be below the retirement age")
	}
	if outsideUnit(p.PartTimeFactor) {
		return invalid("part-time factor must be between 0 and 1")
	}
	if p.SSClaimAge != 0 && (p.SSClaimAge < 62 || p.SSClaimAge > 70) {
		return invalid("social security claim age must be between 62 and 70")
	}
	if p.SSClaimMonths < 0 || p.SSClaimMonths > 11 {
		return invalid("social security claim months must be between 0 and 11")
	}
	if p.SSClaimAge == 70 && p.SSClaimMonths > 0 {
		return invalid("social security cannot be claimed after 70")
	}
	if p.SSBenefitAtFRA.LessThan(zero) {
		return invalid("social security benefit at FRA cannot be negative")
	}
	if p.EssentialExpenses.LessThan(zero) || p.DiscretionaryExpenses.LessThan(zero) {
		return invalid("expenses cannot be negative")
	}
	if p.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return invalid("inflation rate cannot be less than -10%% (extreme deflation)")
	}
	switch strings.ToLower(p.HSACoverage) {
	case "", string(account.CoverageSelf), string(account.CoverageFamily):
	default:
		return invalid("hsa coverage must be 'self' or 'family'")
	}
	switch strings.ToLower(p.Gender) {
	case "", string(reference.Male), string(reference.Female):
	default:
		return invalid("gender must be 'male' or 'female'")
	}
	if ef := p.EmergencyFund; ef != nil {
		if ef.PreRetirementMonths < 0 || ef.EarlyRetirementMonths < 0 || ef.PostRetirementMonths < 0 {
			return invalid("emergency fund months cannot be negative")
		}
	}
	return nil
}

// validateAccount validates one account definition
func (ip *InputParser) validateAccount(i int, a *domain.AccountConfig) error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid("account %d: name is required", i)
	}
	if a.Balance.LessThan(zero) {
		return invalid("account %q: balance cannot be negative", a.Name)
	}
	if a.AnnualReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("account %q: annual return must be above -100%%", a.Name)
	}
	return nil
}

// validateJob validates one income source
func (ip *InputParser) validateJob(i int, j *domain.Job) error {
	if strings.TrimSpace(j.Title) == "" {
		return invalid("job %d: title is required", i)
	}
	if j.StartDate.IsZero() {
		return invalid("job %q: start date is required", j.Title)
	}
	if !j.EndDate.IsZero() && j.EndDate.Before(j.StartDate) {
		return invalid("job %q: end date is before the start date", j.Title)
	}
	switch j.PaymentType {
	case "":
		j.PaymentType = domain.Salaried
	case domain.Salaried, domain.Hourly:
	default:
		return invalid("job %q: payment type must be 'salaried' or 'hourly'", j.Title)
	}
	switch j.Frequency {
	case "":
		j.Frequency = domain.Biweekly
	case domain.Weekly, domain.Biweekly, domain.Semimonthly, domain.Monthly:
	default:
		return invalid("job %q: unknown pay frequency %q", j.Title, j.Frequency)
	}
	if j.Salary.LessThan(zero) || j.HourlyRate.LessThan(zero) || j.HoursPerWeek.LessThan(zero) || j.Bonus.LessThan(zero) {
		return invalid("job %q: pay cannot be negative", j.Title)
	}
	for name, v := range map[string]decimal.Decimal{
		"personal contribution": j.PersonalContribution,
		"employer contribution": j.EmployerContribution,
		"roth share":            j.RothShare,
		"hsa contribution":      j.HSAContribution,
	} {
		if outsideUnit(v) {
			return invalid("job %q: %s must be between 0 and 1", j.Title, name)
		}
	}
	if j.PersonalContribution.Add(j.HSAContribution).GreaterThan(one) {
		return invalid("job %q: contributions exceed gross pay", j.Title)
	}
	if j.BonusMonth < 0 || j.BonusMonth > time.December {
		return invalid("job %q: bonus month must be between 1 and 12", j.Title)
	}
	if j.Bonus.IsPositive() && j.BonusMonth == 0 {
		j.BonusMonth = time.December
	}
	return nil
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(i int, sc *domain.ScenarioConfig) error {
	if strings.TrimSpace(sc.Name) == "" {
		return invalid("scenario %d: name is required", i)
	}
	if sc.RetirementAge != nil && (*sc.RetirementAge < 0 || *sc.RetirementAge > 100) {
		return invalid("scenario %q: retirement age must be between 0 and 100", sc.Name)
	}
	if sc.SSClaimAge != nil && (*sc.SSClaimAge < 62 || *sc.SSClaimAge > 70) {
		return invalid("scenario %q: social security claim age must be between 62 and 70", sc.Name)
	}
	if sc.SSClaimMonths != nil && (*sc.SSClaimMonths < 0 || *sc.SSClaimMonths > 11) {
		return invalid("scenario %q: social security claim months must be between 0 and 11", sc.Name)
	}
	if sc.EssentialExpenses != nil && sc.EssentialExpenses.LessThan(zero) {
		return invalid("scenario %q: essential expenses cannot be negative", sc.Name)
	}
	if sc.DiscretionaryExpenses != nil && sc.DiscretionaryExpenses.LessThan(zero) {
		return invalid("scenario %q: discretionary expenses cannot be negative", sc.Name)
	}
	if sc.AnnualReturn != nil && sc.AnnualReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("scenario %q: annual return must be above -100%%", sc.Name)
	}
	return nil
}

// BuildPerson turns a validated configuration into a person ready to simulate.
// Accounts open at start unless they name their own open date; a zero-balance
// savings account is added when the profile has none, so take-home pay has
// somewhere to land.
func BuildPerson(config *domain.Configuration, tables *reference.Tables, start time.Time) *domain.Person {
	prof := config.Profile
	p := domain.NewPerson(prof.Name, prof.BirthDate)
	p.Gender = reference.Gender(strings.ToLower(prof.Gender))
	p.FilingStatus = reference.ParseFilingStatus(prof.FilingStatus)
	if prof.RetirementAge > 0 {
		p.RetirementAge = prof.RetirementAge
	}
	p.PartTimeAge = prof.PartTimeAge
	if prof.PartTimeFactor.IsPositive() {
		p.PartTimeFactor = prof.PartTimeFactor
	}
	if prof.SSClaimAge > 0 {
		p.SSClaimAge = prof.SSClaimAge
	}
	p.SSClaimMonths = prof.SSClaimMonths
	p.SSBenefitAtFRA = prof.SSBenefitAtFRA
	p.EssentialExpenses = prof.EssentialExpenses
	p.DiscretionaryExpenses = prof.DiscretionaryExpenses
	p.InflationRate = prof.InflationRate
	if prof.EmergencyFund != nil {
		p.EmergencyFund = *prof.EmergencyFund
	}
	if prof.HSACoverage != "" {
		p.Coverage = account.Coverage(strings.ToLower(prof.HSACoverage))
	}
	if prof.MedicarePartB != nil {
		p.MedicarePartB = *prof.MedicarePartB
	}

	for i := range config.Jobs {
		p.Jobs = append(p.Jobs, config.Jobs[i].Clone())
	}

	opened := dateutil.FirstOfMonth(start)
	for _, ac := range config.Accounts {
		openDate := ac.OpenDate
		if openDate.IsZero() {
			openDate = opened
		}
		p.AddAccount(account.New(ac.Name, ac.Kind, ac.AnnualReturn, ac.Balance, openDate,
			account.WithTables(tables)))
	}
	if p.FirstOfKind(account.Savings) == nil {
		p.AddAccount(account.New(DefaultCashAccount, account.Savings, decimal.Zero, decimal.Zero, opened,
			account.WithTables(tables)))
	}

	return p
}

// CreateExampleConfiguration creates an example configuration: a mid-career saver with
// a workplace plan, an IRA, an HSA and two what-if scenarios
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	birthDate, _ := time.Parse("2006-01-02", "1980-04-12")
	hireDate, _ := time.Parse("2006-01-02", "2015-09-01")
	partB := true

	return &domain.Configuration{
		Profile: domain.ProfileConfig{
			Name:                  "Alex",
			BirthDate:             birthDate,
			Gender:                "female",
			FilingStatus:          "single",
			RetirementAge:         62,
			PartTimeAge:           58,
			PartTimeFactor:        decimal.NewFromFloat(0.5),
			SSClaimAge:            67,
			SSBenefitAtFRA:        decimal.NewFromInt(2600),
			EssentialExpenses:     decimal.NewFromInt(42000),
			DiscretionaryExpenses: decimal.NewFromInt(12000),
			InflationRate:         decimal.NewFromFloat(0.025),
			HSACoverage:           "self",
			MedicarePartB:         &partB,
		},
		Accounts: []domain.AccountConfig{
			{Name: "emergency", Kind: account.Savings, Balance: decimal.NewFromInt(30000), AnnualReturn: decimal.NewFromFloat(0.03)},
			{Name: "401k", Kind: account.Traditional401k, Balance: decimal.NewFromInt(310000), AnnualReturn: decimal.NewFromFloat(0.06)},
			{Name: "roth 401k", Kind: account.Roth401k, Balance: decimal.NewFromInt(45000), AnnualReturn: decimal.NewFromFloat(0.06)},
			{Name: "roth ira", Kind: account.RothIRA, Balance: decimal.NewFromInt(60000), AnnualReturn: decimal.NewFromFloat(0.06)},
			{Name: "hsa", Kind: account.HSA, Balance: decimal.NewFromInt(18000), AnnualReturn: decimal.NewFromFloat(0.05)},
			{Name: "brokerage", Kind: account.TaxableBrokerage, Balance: decimal.NewFromInt(75000), AnnualReturn: decimal.NewFromFloat(0.055)},
		},
		Jobs: []domain.Job{
			{
				Title:                "Engineer",
				StartDate:            hireDate,
				PaymentType:          domain.Salaried,
				Frequency:            domain.Biweekly,
				Salary:               decimal.NewFromInt(135000),
				RaiseRate:            decimal.NewFromFloat(0.03),
				Bonus:                decimal.NewFromInt(10000),
				BonusMonth:           time.March,
				PersonalContribution: decimal.NewFromFloat(0.12),
				EmployerContribution: decimal.NewFromFloat(0.04),
				RothShare:            decimal.NewFromFloat(0.25),
				HSAContribution:      decimal.NewFromFloat(0.02),
			},
		},
		Simulation: domain.SimulationConfig{
			EndAge: 95,
		},
		Scenarios: []domain.ScenarioConfig{
			{Name: "Retire at 62"},
			{Name: "Work to 65", RetirementAge: intPtr(65), PartTimeAge: intPtr(0)},
			{Name: "Claim SS at 70", SSClaimAge: intPtr(70)},
		},
	}
}

func intPtr(v int) *int { return &v }
