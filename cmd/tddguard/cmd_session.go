package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/tddguard/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd, sessionClearCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset session state",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [slot]",
	Short: "Print stored slots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slots := types.AllSlots
		if len(args) == 1 {
			slot := types.Slot(args[0])
			if !slot.Valid() {
				return fmt.Errorf("unknown slot: %s", args[0])
			}
			slots = []types.Slot{slot}
		}

		return withApp(func(a *app) error {
			for _, slot := range slots {
				content, ok, err := a.store.Get(cmd.Context(), slot)
				if err != nil {
					return fmt.Errorf("read %s: %w", slot, err)
				}
				if !ok {
					fmt.Fprintf(os.Stdout, "== %s (empty)\n", slot)
					continue
				}
				fmt.Fprintf(os.Stdout, "== %s\n%s\n", slot, content)
			}
			return nil
		})
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear test, todo, modifications and lint slots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.store.ClearTransient(cmd.Context()); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(os.Stdout, "Session state cleared.")
			return nil
		})
	},
}
