package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().Int("limit", 20, "number of decisions to show")
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent hook decisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withApp(func(a *app) error {
			decisions, err := a.audit.Tail(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read decision log: %w", err)
			}
			if len(decisions) == 0 {
				fmt.Println("No decisions recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SEQ\tTIME\tEVENT\tTOOL\tSTAGE\tDECISION\tREASON")
			for _, d := range decisions {
				decision := d.Decision
				if decision == "" {
					decision = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					d.Seq,
					d.At.Local().Format("2006-01-02 15:04:05"),
					d.Event,
					d.Tool,
					d.Stage,
					decision,
					firstLine(d.Reason, 60),
				)
			}
			return w.Flush()
		})
	},
}

// firstLine returns the first line of s, cut to limit runes.
func firstLine(s string, limit int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit-1]) + "…"
	}
	return s
}
