package calculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
	dec "github.com/rpgo/lifeplan/pkg/decimal"
)

// ErrUnsustainable is returned when essential spending alone runs the plan short
var ErrUnsustainable = errors.New("essential spending cannot be funded")

// SpendingOptions configures SustainableSpending
type SpendingOptions struct {
	Tables        *reference.Tables
	Logger        Logger
	Run           RunOptions
	Tolerance     decimal.Decimal // Default: 100
	MaxIterations int             // Default: 50
}

// SpendingResult is the highest annual discretionary budget that never runs short
type SpendingResult struct {
	Discretionary decimal.Decimal          `json:"discretionary"` // annual, current dollars
	Result        *domain.SimulationResult `json:"-"`
	Iterations    int                      `json:"iterations"`
}

// SustainableSpending searches for the largest annual discretionary spending that the
// plan funds through the whole run without a shortfall month. Every probe runs on a
// clone of base.
func SustainableSpending(ctx context.Context, base *domain.Person, opts SpendingOptions) (*SpendingResult, error) {
	if base == nil {
		return nil, ErrNoPerson
	}
	tolerance := opts.Tolerance
	if !tolerance.IsPositive() {
		tolerance = decimal.NewFromInt(100)
	}
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 50
	}

	iterations := 0
	probe := func(discretionary decimal.Decimal) (*domain.SimulationResult, bool, error) {
		iterations++
		p := base.Clone()
		p.DiscretionaryExpenses = discretionary
		engine := NewEngine(NewContext(opts.Tables, opts.Logger))
		result, err := engine.Run(ctx, p, opts.Run)
		if err != nil {
			return nil, false, err
		}
		return result, result.Totals.Shortfalls == 0, nil
	}

	best, ok, err := probe(decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("failed to run spending probe: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d shortfall months with no discretionary spending", ErrUnsustainable, best.Totals.Shortfalls)
	}

	// Double the upper bound until the plan fails
	low := decimal.Zero
	high := decimal.Max(base.EssentialExpenses, decimal.NewFromInt(10000))
	for iterations < maxIterations {
		result, ok, err := probe(high)
		if err != nil {
			return nil, fmt.Errorf("failed to run spending probe: %w", err)
		}
		if !ok {
			break
		}
		low, best = high, result
		high = high.Mul(decimal.NewFromInt(2))
	}

	for iterations < maxIterations && high.Sub(low).GreaterThan(tolerance) {
		mid := dec.Cents(low.Add(high).Div(decimal.NewFromInt(2)))
		result, ok, err := probe(mid)
		if err != nil {
			return nil, fmt.Errorf("failed to run spending probe: %w", err)
		}
		if ok {
			low, best = mid, result
		} else {
			high = mid
		}
	}

	return &SpendingResult{
		Discretionary: low,
		Result:        best,
		Iterations:    iterations,
	}, nil
}

// BreakEven is the month in which a running total catches up with another
type BreakEven struct {
	Date   time.Time       `json:"date"`
	Age    int             `json:"age"`
	Amount decimal.Decimal `json:"amount"` // running total of the later series at the crossover
}

// CumulativeBreakEven finds the first month in which the running total of value over
// later catches up with the running total over earlier, after having trailed it.
// Both runs must start in the same month. It returns nil, nil when later never trails
// or never catches up within the shorter run.
func CumulativeBreakEven(earlier, later *domain.SimulationResult, value func(*domain.Snapshot) decimal.Decimal) (*BreakEven, error) {
	if earlier == nil || later == nil || len(earlier.Snapshots) == 0 || len(later.Snapshots) == 0 {
		return nil, fmt.Errorf("one or both results are empty")
	}
	if !earlier.Snapshots[0].Date.Equal(later.Snapshots[0].Date) {
		return nil, fmt.Errorf("results start in different months: %s and %s",
			earlier.Snapshots[0].Date.Format("2006-01"), later.Snapshots[0].Date.Format("2006-01"))
	}

	n := min(len(earlier.Snapshots), len(later.Snapshots))
	cumA, cumB := decimal.Zero, decimal.Zero
	trailed := false
	for i := 0; i < n; i++ {
		cumA = cumA.Add(value(&earlier.Snapshots[i]))
		cumB = cumB.Add(value(&later.Snapshots[i]))
		switch diff := cumB.Sub(cumA); {
		case diff.IsNegative():
			trailed = true
		case trailed:
			s := later.Snapshots[i]
			return &BreakEven{Date: s.Date, Age: s.Age, Amount: cumB}, nil
		}
	}
	return nil, nil
}

// SocialSecurityBreakEven compares cumulative benefits of an earlier and a later claim
func SocialSecurityBreakEven(earlier, later *domain.SimulationResult) (*BreakEven, error) {
	return CumulativeBreakEven(earlier, later, func(s *domain.Snapshot) decimal.Decimal { return s.SocialSecurity })
}
