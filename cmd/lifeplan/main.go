package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables consulted for flag defaults. A .env file in the working
// directory is loaded first; variables already set in the environment win.
const (
	envConfig    = "LIFEPLAN_CONFIG"
	envReference = "LIFEPLAN_REFERENCE"
	envFormat    = "LIFEPLAN_FORMAT"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lifeplan",
		Short:        "Month-by-month lifetime personal finance simulator",
		Long:         "lifeplan simulates a person's accounts, pay, taxes, Social Security, Medicare and required distributions one month at a time from today to a chosen age.",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newSpendingCmd(), newBreakEvenCmd(), newExampleCmd(), newFormatsCmd())
	return root
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
