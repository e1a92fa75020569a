package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/tddguard/internal/testresult"
	"github.com/user/tddguard/internal/types"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <runner>",
	Short: "Record test runner output as the current test result",
	Long: `report reads a test runner's machine-readable output on stdin, echoes it to
stdout unchanged and stores the converted result. Example:

  go test -json ./... | tddguard report go`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: testresult.AdapterNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := testresult.AdapterFor(args[0])
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(testresult.AdapterNames(), ", "))
		}
		return withApp(func(a *app) error {
			r, err := recordReport(cmd.Context(), a.store, adapter, os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
			passed, failed, skipped := r.Counts()
			fmt.Fprintf(os.Stderr, "tddguard: recorded %d passed, %d failed, %d skipped\n", passed, failed, skipped)
			return nil
		})
	},
}

// recordReport converts in with adapter while copying it to echo, then
// saves the result to the test slot.
func recordReport(ctx context.Context, store types.Store, adapter testresult.Adapter, in io.Reader, echo io.Writer) (*testresult.Result, error) {
	tee := io.TeeReader(in, echo)
	r, convErr := adapter.Convert(tee)
	// Echo whatever the adapter did not consume.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, fmt.Errorf("read test output: %w", err)
	}
	if convErr != nil {
		return nil, fmt.Errorf("convert %s output: %w", adapter.Name(), convErr)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal test result: %w", err)
	}
	if err := store.Save(ctx, types.SlotTest, string(data)); err != nil {
		return nil, fmt.Errorf("save test result: %w", err)
	}
	return r, nil
}
