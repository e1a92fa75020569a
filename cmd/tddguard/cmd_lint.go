package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/tddguard/internal/lint"
)

func init() {
	rootCmd.AddCommand(lintCmd)
}

var lintCmd = &cobra.Command{
	Use:   "lint <file>...",
	Short: "Run the configured linter over files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			l, err := a.linter()
			if err != nil {
				return err
			}
			if l == nil {
				fmt.Fprintln(os.Stdout, "No linter configured (set linter.type).")
				return nil
			}

			r, err := l.Lint(cmd.Context(), args)
			if err != nil {
				return fmt.Errorf("run %s: %w", l.Name(), err)
			}
			fmt.Fprintln(os.Stdout, lint.Process(&lint.Data{Result: r}).String())
			if r.HasIssues() {
				return fmt.Errorf("%d lint problems", r.Total())
			}
			return nil
		})
	},
}
