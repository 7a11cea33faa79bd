package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/lifeplan/internal/account"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
)

const testProfile = `profile:
  name: Jamie
  birth_date: 1975-09-30
  filing_status: mfj
  retirement_age: 60
  ss_claim_age: 67
  ss_benefit_fra: 2400
  essential_expenses: 48000
  discretionary_expenses: 12000
  inflation_rate: 0.025
  medicare_part_b: false
accounts:
  - name: 401k
    kind: 401k
    balance: 400000
    annual_return: 0.06
  - name: brokerage
    kind: taxable
    balance: 50000
    annual_return: 0.05
    open_date: 2020-01-01
jobs:
  - title: Manager
    start_date: 2005-06-01
    salary: 110000
    personal_contribution: 0.08
    bonus: 5000
scenarios:
  - name: later
    retirement_age: 63
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeProfile(t, testProfile))
	require.NoError(t, err)

	assert.Equal(t, "Jamie", config.Profile.Name)
	require.Len(t, config.Accounts, 2)
	assert.Equal(t, account.Traditional401k, config.Accounts[0].Kind)
	assert.Equal(t, account.TaxableBrokerage, config.Accounts[1].Kind)
	require.Len(t, config.Jobs, 1)

	// defaults filled in by validation
	assert.Equal(t, domain.Salaried, config.Jobs[0].PaymentType)
	assert.Equal(t, domain.Biweekly, config.Jobs[0].Frequency)
	assert.Equal(t, time.December, config.Jobs[0].BonusMonth)
	require.Len(t, config.Scenarios, 1)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeProfile(t, "profile: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func validConfiguration() *domain.Configuration {
	return NewInputParser().CreateExampleConfiguration()
}

func TestValidateConfiguration(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *domain.Configuration)
		wantErr string
	}{
		{"example is valid", func(*domain.Configuration) {}, ""},
		{"missing name", func(c *domain.Configuration) { c.Profile.Name = " " }, "profile name is required"},
		{"missing birth date", func(c *domain.Configuration) { c.Profile.BirthDate = time.Time{} }, "birth date is required"},
		{"unknown filing status", func(c *domain.Configuration) { c.Profile.FilingStatus = "widowed" }, "unknown filing status"},
		{"part time after retirement", func(c *domain.Configuration) { c.Profile.PartTimeAge = 63 }, "part-time age"},
		{"part time factor above one", func(c *domain.Configuration) { c.Profile.PartTimeFactor = decimal.NewFromFloat(1.5) }, "part-time factor"},
		{"claim age too early", func(c *domain.Configuration) { c.Profile.SSClaimAge = 61 }, "claim age must be between 62 and 70"},
		{"claim after 70", func(c *domain.Configuration) { c.Profile.SSClaimAge = 70; c.Profile.SSClaimMonths = 2 }, "after 70"},
		{"negative expenses", func(c *domain.Configuration) { c.Profile.EssentialExpenses = decimal.NewFromInt(-1) }, "expenses cannot be negative"},
		{"deflation", func(c *domain.Configuration) { c.Profile.InflationRate = decimal.NewFromFloat(-0.2) }, "inflation rate"},
		{"hsa coverage", func(c *domain.Configuration) { c.Profile.HSACoverage = "couple" }, "hsa coverage"},
		{"gender", func(c *domain.Configuration) { c.Profile.Gender = "x" }, "gender"},
		{"negative balance", func(c *domain.Configuration) { c.Accounts[0].Balance = decimal.NewFromInt(-5) }, "balance cannot be negative"},
		{"total loss return", func(c *domain.Configuration) { c.Accounts[1].AnnualReturn = decimal.NewFromInt(-1) }, "annual return"},
		{"duplicate account", func(c *domain.Configuration) { c.Accounts[1].Name = c.Accounts[0].Name }, "defined twice"},
		{"job without title", func(c *domain.Configuration) { c.Jobs[0].Title = "" }, "title is required"},
		{"job ends before it starts", func(c *domain.Configuration) { c.Jobs[0].EndDate = c.Jobs[0].StartDate.AddDate(-1, 0, 0) }, "end date"},
		{"unknown frequency", func(c *domain.Configuration) { c.Jobs[0].Frequency = "daily" }, "pay frequency"},
		{"roth share above one", func(c *domain.Configuration) { c.Jobs[0].RothShare = decimal.NewFromInt(2) }, "roth share"},
		{"contributions exceed pay", func(c *domain.Configuration) {
			c.Jobs[0].PersonalContribution = decimal.NewFromFloat(0.9)
			c.Jobs[0].HSAContribution = decimal.NewFromFloat(0.2)
		}, "exceed gross pay"},
		{"end age", func(c *domain.Configuration) { c.Simulation.EndAge = 130 }, "end age"},
		{"unnamed scenario", func(c *domain.Configuration) { c.Scenarios[0].Name = "" }, "name is required"},
		{"duplicate scenario", func(c *domain.Configuration) { c.Scenarios[1].Name = c.Scenarios[0].Name }, "defined twice"},
		{"scenario claim age", func(c *domain.Configuration) { c.Scenarios[2].SSClaimAge = intPtr(75) }, "claim age"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfiguration()
			tc.mutate(c)
			err := NewInputParser().ValidateConfiguration(c)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBuildPerson(t *testing.T) {
	config, err := NewInputParser().LoadFromFile(writeProfile(t, testProfile))
	require.NoError(t, err)

	tables := reference.Default()
	start := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	p := BuildPerson(config, tables, start)

	assert.Equal(t, "Jamie", p.Name)
	assert.Equal(t, reference.MarriedFilingJointly, p.FilingStatus)
	assert.Equal(t, 60, p.RetirementAge)
	assert.False(t, p.MedicarePartB)
	assert.True(t, p.PartTimeFactor.Equal(decimal.NewFromFloat(0.5)), "default part-time factor kept")
	assert.Equal(t, account.CoverageSelf, p.HSACoverage())

	// two configured accounts plus the default savings account
	require.Len(t, p.Accounts, 3)
	savings := p.Account(DefaultCashAccount)
	require.NotNil(t, savings)
	assert.Equal(t, account.Savings, savings.Kind)

	k401 := p.Account("401k")
	assert.True(t, k401.StartingBalance(2025).Equal(decimal.NewFromInt(400000)))
	assert.True(t, p.Account("brokerage").StartingBalance(2020).Equal(decimal.NewFromInt(50000)))
	assert.Same(t, tables, k401.Tables())
	assert.Equal(t, account.Owner(p), k401.Owner())

	// jobs are copied, not shared
	p.Jobs[0].ApplyRaise()
	assert.True(t, config.Jobs[0].Salary.Equal(decimal.NewFromInt(110000)))
}

func TestBuildPerson_KeepsExistingSavings(t *testing.T) {
	config := validConfiguration()
	p := BuildPerson(config, reference.Default(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Len(t, p.Accounts, len(config.Accounts))
	assert.Nil(t, p.Account(DefaultCashAccount))
	assert.Equal(t, reference.Female, p.Gender)
}

func TestCreateExampleConfiguration_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExampleConfiguration()

	data, err := yaml.Marshal(example)
	require.NoError(t, err)

	parsed, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, example.Profile.Name, parsed.Profile.Name)
	assert.True(t, example.Profile.BirthDate.Equal(parsed.Profile.BirthDate))
	assert.Len(t, parsed.Accounts, len(example.Accounts))
	assert.Equal(t, example.Accounts[4].Kind, parsed.Accounts[4].Kind)
	assert.Len(t, parsed.Scenarios, 3)
	require.NotNil(t, parsed.Scenarios[1].RetirementAge)
	assert.Equal(t, 65, *parsed.Scenarios[1].RetirementAge)
}
