package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/lifeplan/internal/calculation"
	"github.com/rpgo/lifeplan/internal/output"
)

func newSpendingCmd() *cobra.Command {
	f := &runFlags{}
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Find the highest discretionary spending the plan can fund without running short",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pl, err := loadPlan(cmd, f)
			if err != nil {
				return err
			}
			res, err := calculation.SustainableSpending(cmd.Context(), pl.base, calculation.SpendingOptions{
				Tables:    pl.tables,
				Logger:    pl.logger,
				Run:       pl.opts,
				Tolerance: decimal.NewFromFloat(tolerance),
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sustainable discretionary spending: %s per year (%d runs)\n", output.FormatCurrency(res.Discretionary), res.Iterations)
			fmt.Fprintf(w, "Configured discretionary spending:  %s per year\n", output.FormatCurrency(pl.base.DiscretionaryExpenses))
			fmt.Fprintf(w, "Final net worth at that level:      %s\n", output.FormatCurrency(res.Result.FinalNetWorth))
			return nil
		},
	}
	addPlanFlags(cmd, f)
	cmd.Flags().Float64Var(&tolerance, "tolerance", 100, "stop searching once the bracket is narrower than this many dollars")
	return cmd
}

func newBreakEvenCmd() *cobra.Command {
	f := &runFlags{}
	var claimAge int
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Compare cumulative Social Security between the profile's claiming age and another",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if claimAge < 62 || claimAge > 70 {
				return fmt.Errorf("--claim-age must be between 62 and 70, got %d", claimAge)
			}
			pl, err := loadPlan(cmd, f)
			if err != nil {
				return err
			}

			base, err := pl.engine().Run(cmd.Context(), pl.base.Clone(), pl.opts)
			if err != nil {
				return fmt.Errorf("failed to run simulation: %w", err)
			}
			alt := pl.base.Clone()
			alt.SSClaimAge, alt.SSClaimMonths = claimAge, 0
			other, err := pl.engine().Run(cmd.Context(), alt, pl.opts)
			if err != nil {
				return fmt.Errorf("failed to run simulation: %w", err)
			}

			earlier, later := base, other
			earlyAge, lateAge := pl.base.SSClaimAge, claimAge
			if claimAge < pl.base.SSClaimAge {
				earlier, later = other, base
				earlyAge, lateAge = claimAge, pl.base.SSClaimAge
			}

			w := cmd.OutOrStdout()
			if earlyAge == lateAge {
				fmt.Fprintf(w, "Both runs claim at %d; nothing to compare\n", earlyAge)
				return nil
			}
			be, err := calculation.SocialSecurityBreakEven(earlier, later)
			if err != nil {
				return err
			}
			if be == nil {
				fmt.Fprintf(w, "Claiming at %d never catches up with claiming at %d before the run ends\n", lateAge, earlyAge)
				return nil
			}
			fmt.Fprintf(w, "Claiming at %d catches up with claiming at %d in %s at age %d (%s received)\n",
				lateAge, earlyAge, be.Date.Format("2006-01"), be.Age, output.FormatCurrency(be.Amount))
			return nil
		},
	}
	addPlanFlags(cmd, f)
	cmd.Flags().IntVar(&claimAge, "claim-age", 70, "claiming age to compare against the profile's")
	return cmd
}
