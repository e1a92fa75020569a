package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(guardCmd)
	guardCmd.AddCommand(guardOnCmd, guardOffCmd, guardStatusCmd, guardIgnoreCmd)
}

// withApp opens the configured store for an operator command.
func withApp(fn func(a *app) error) error {
	cfg := loadConfig()
	setupLogging(cfg)
	a, err := openApp(cfg, projectDir())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Turn the guard on or off",
}

var guardOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable validation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.guard.Enable(cmd.Context()); err != nil {
				return fmt.Errorf("enable guard: %w", err)
			}
			fmt.Fprintln(os.Stdout, "TDD Guard enabled")
			return nil
		})
	},
}

var guardOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable validation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.guard.Disable(cmd.Context()); err != nil {
				return fmt.Errorf("disable guard: %w", err)
			}
			fmt.Fprintln(os.Stdout, "TDD Guard disabled")
			return nil
		})
	},
}

var guardStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the guard is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			status := "disabled"
			if a.guard.IsEnabled(cmd.Context()) {
				status = "enabled"
			}
			fmt.Fprintf(os.Stdout, "TDD Guard is %s\n", status)
			fmt.Fprintf(os.Stdout, "Ignore patterns: %s\n", strings.Join(a.guard.IgnorePatterns(cmd.Context()), ", "))
			return nil
		})
	},
}

var guardIgnoreCmd = &cobra.Command{
	Use:   "ignore <pattern>...",
	Short: "Replace the stored ignore patterns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.guard.SetIgnorePatterns(cmd.Context(), args); err != nil {
				return fmt.Errorf("set ignore patterns: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Ignoring %s\n", strings.Join(args, ", "))
			return nil
		})
	},
}
