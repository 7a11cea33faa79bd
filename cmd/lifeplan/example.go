package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/lifeplan/internal/config"
	"github.com/rpgo/lifeplan/internal/output"
)

func newExampleCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example YAML profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			example := config.NewInputParser().CreateExampleConfiguration()
			if out != "" {
				if err := output.SaveConfiguration(example, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "example profile written to %s\n", out)
				return nil
			}
			data, err := yaml.Marshal(example)
			if err != nil {
				return fmt.Errorf("failed to encode example: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write instead of stdout")
	return cmd
}
