package account

import (
	"fmt"
	"strings"
)

// Kind is the tax treatment of an account
type Kind int

const (
	Traditional401k Kind = iota
	TraditionalIRA
	RothIRA
	Roth401k
	TaxableBrokerage
	Savings
	HSA
)

var kindNames = map[Kind]string{
	Traditional401k:  "traditional_401k",
	TraditionalIRA:   "traditional_ira",
	RothIRA:          "roth_ira",
	Roth401k:         "roth_401k",
	TaxableBrokerage: "brokerage",
	Savings:          "savings",
	HSA:              "hsa",
}

var kindAliases = map[string]Kind{
	"401k":              Traditional401k,
	"traditional401k":   Traditional401k,
	"ira":               TraditionalIRA,
	"traditionalira":    TraditionalIRA,
	"rothira":           RothIRA,
	"roth":              RothIRA,
	"roth401k":          Roth401k,
	"taxable":           TaxableBrokerage,
	"taxable_brokerage": TaxableBrokerage,
	"cash":              Savings,
}

// Kinds returns every account kind in declaration order
func Kinds() []Kind {
	return []Kind{Traditional401k, TraditionalIRA, RothIRA, Roth401k, TaxableBrokerage, Savings, HSA}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a configuration name to a Kind
func ParseKind(s string) (Kind, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	for k, name := range kindNames {
		if name == key {
			return k, nil
		}
	}
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	if k, ok := kindAliases[strings.ReplaceAll(key, "_", "")]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown account kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsTaxDeferred reports whether withdrawals are taxed as ordinary income
func (k Kind) IsTaxDeferred() bool {
	return k == Traditional401k || k == TraditionalIRA
}

// IsRoth reports whether qualified withdrawals are tax free
func (k Kind) IsRoth() bool {
	return k == RothIRA || k == Roth401k
}

// IsEmployerPlan reports whether the account accepts payroll and employer contributions
func (k Kind) IsEmployerPlan() bool {
	return k == Traditional401k || k == Roth401k
}

// IsIRA reports whether the account is an individual retirement arrangement
func (k Kind) IsIRA() bool {
	return k == TraditionalIRA || k == RothIRA
}

// HasContributionLimit reports whether contributions are subject to IRS annual limits
func (k Kind) HasContributionLimit() bool {
	switch k {
	case Traditional401k, Roth401k, TraditionalIRA, RothIRA, HSA:
		return true
	default:
		return false
	}
}

// SubjectToRMD reports whether required minimum distributions apply to the owner.
// Roth 401(k) accounts are exempt since 2024.
func (k Kind) SubjectToRMD() bool {
	return k.IsTaxDeferred()
}

// IsTaxable reports whether growth is taxed as it accrues
func (k Kind) IsTaxable() bool {
	return k == TaxableBrokerage || k == Savings
}

// IsPreTax reports whether contributions reduce taxable income
func (k Kind) IsPreTax() bool {
	return k.IsTaxDeferred() || k == HSA
}
