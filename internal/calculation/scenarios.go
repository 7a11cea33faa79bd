package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
)

// DefaultConcurrency limits concurrent scenario runs
const DefaultConcurrency = 10

// ScenarioOptions configures a batch of scenario runs
type ScenarioOptions struct {
	Tables      *reference.Tables
	Logger      Logger
	Run         RunOptions
	Concurrency int // Default: 10
}

// RunScenarios simulates each scenario on an independent clone of base. Every run has
// its own engine and context so nothing is shared but the read-only tables. Results
// are returned in scenario order.
func RunScenarios(ctx context.Context, base *domain.Person, scenarios []domain.ScenarioConfig, opts ScenarioOptions) ([]domain.ScenarioSummary, error) {
	if base == nil {
		return nil, ErrNoPerson
	}
	tables := opts.Tables
	if tables == nil {
		tables = reference.Default()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	summaries := make([]domain.ScenarioSummary, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, limit) // Limit concurrent simulations
	for i := range scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore

			sc := scenarios[idx]
			p := base.Clone()
			sc.Apply(p)

			engine := NewEngine(NewContext(tables, opts.Logger))
			run := opts.Run
			run.Name = sc.Name
			run.Milestones = nil
			result, err := engine.Run(ctx, p, run)
			if err != nil {
				errs[idx] = fmt.Errorf("failed to run scenario %q: %w", sc.Name, err)
				return
			}
			summaries[idx] = Summarize(p, result)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}
