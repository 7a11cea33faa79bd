package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/lifeplan/internal/calculation"
	"github.com/rpgo/lifeplan/internal/config"
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/output"
	"github.com/rpgo/lifeplan/internal/reference"
)

type runFlags struct {
	configPath    string
	referencePath string
	format        string
	out           string
	start         string
	endAge        int
	skipScenarios bool
	verbose       bool
	debug         bool
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a profile and print or save the report",
		Example: `  lifeplan run --config profile.yaml
  lifeplan run --config profile.yaml --format csv --out ledger.csv
  LIFEPLAN_FORMAT=json lifeplan run --config profile.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, f)
		},
	}
	addPlanFlags(cmd, f)
	cmd.Flags().StringVarP(&f.format, "format", "f", envOr(envFormat, "console"), "output format, see 'lifeplan formats' (env "+envFormat+")")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&f.skipScenarios, "no-scenarios", false, "skip the what-if scenarios in the profile")
	return cmd
}

// addPlanFlags registers the flags every simulating command shares
func addPlanFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", envOr(envConfig, ""), "YAML profile (env "+envConfig+")")
	cmd.Flags().StringVarP(&f.referencePath, "reference", "r", envOr(envReference, ""), "JSON reference tables merged over the built-in data (env "+envReference+")")
	cmd.Flags().StringVar(&f.start, "start", "", "first simulated month as YYYY-MM (default: the profile's start date or the current month)")
	cmd.Flags().IntVar(&f.endAge, "end-age", 0, "age at which the simulation stops (default: the profile's end age or 100)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log progress and warnings to stderr")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log per-month detail to stderr (implies --verbose)")
}

// plan is a loaded profile ready to simulate
type plan struct {
	cfg    *domain.Configuration
	tables *reference.Tables
	logger calculation.Logger
	base   *domain.Person
	opts   calculation.RunOptions
}

func loadPlan(cmd *cobra.Command, f *runFlags) (*plan, error) {
	if f.configPath == "" {
		return nil, fmt.Errorf("no profile given: pass --config or set %s", envConfig)
	}
	cfg, err := config.NewInputParser().LoadFromFile(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	tables, err := loadTables(f.referencePath, cfg.Simulation.ReferenceFile)
	if err != nil {
		return nil, err
	}

	var logger calculation.Logger = calculation.NopLogger{}
	if f.verbose || f.debug {
		logger = calculation.NewStdLogger(cmd.ErrOrStderr(), f.debug)
	}

	opts, err := runOptions(f, &cfg.Simulation)
	if err != nil {
		return nil, err
	}
	start := opts.Start
	if start.IsZero() {
		start = calculation.DefaultStart()
	}

	return &plan{
		cfg:    cfg,
		tables: tables,
		logger: logger,
		base:   config.BuildPerson(cfg, tables, start),
		opts:   opts,
	}, nil
}

// engine returns a fresh engine for one run of the plan
func (pl *plan) engine() *calculation.Engine {
	return calculation.NewEngine(calculation.NewContext(pl.tables, pl.logger))
}

func runSimulation(cmd *cobra.Command, f *runFlags) error {
	formatter, err := output.Lookup(f.format)
	if err != nil {
		return err
	}
	pl, err := loadPlan(cmd, f)
	if err != nil {
		return err
	}

	result, err := pl.engine().Run(cmd.Context(), pl.base.Clone(), pl.opts)
	if err != nil {
		return fmt.Errorf("failed to run simulation: %w", err)
	}

	report := &output.Report{
		Name:        pl.base.Name,
		GeneratedAt: time.Now(),
		Assumptions: output.GenerateAssumptions(pl.base),
		Result:      result,
	}

	if len(pl.cfg.Scenarios) > 0 && !f.skipScenarios {
		summaries, err := calculation.RunScenarios(cmd.Context(), pl.base, pl.cfg.Scenarios, calculation.ScenarioOptions{
			Tables: pl.tables,
			Logger: pl.logger,
			Run:    pl.opts,
		})
		if err != nil {
			return fmt.Errorf("failed to run scenarios: %w", err)
		}
		cmp := calculation.CompareScenarios(summaries)
		report.Comparison = &cmp
	}

	var w io.Writer = cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", f.out, err)
		}
		defer file.Close()
		w = file
	}
	return output.Render(w, formatter, report)
}

// loadTables returns the built-in reference data, or a file merged over it. The flag
// wins over the profile's reference_file.
func loadTables(flagPath, profilePath string) (*reference.Tables, error) {
	path := flagPath
	if path == "" {
		path = profilePath
	}
	if path == "" {
		return reference.Default(), nil
	}
	tables, err := reference.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables: %w", err)
	}
	return tables, nil
}

func runOptions(f *runFlags, sim *domain.SimulationConfig) (calculation.RunOptions, error) {
	opts := calculation.RunOptions{
		Name:   "base",
		Start:  sim.StartDate,
		EndAge: sim.EndAge,
	}
	if f.start != "" {
		start, err := time.Parse("2006-01", f.start)
		if err != nil {
			return opts, fmt.Errorf("invalid --start %q, want YYYY-MM: %w", f.start, err)
		}
		opts.Start = start
	}
	if f.endAge > 0 {
		opts.EndAge = f.endAge
	}
	return opts, nil
}
