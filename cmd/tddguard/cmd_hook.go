package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/user/tddguard/internal/config"
	"github.com/user/tddguard/internal/dispatch"
	"github.com/user/tddguard/internal/hook"
)

// runHook handles one hook event. It always exits 0 so a broken guard
// never stops the agent.
func runHook(cmd *cobra.Command, args []string) error {
	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return cmd.Help()
	}

	cfg, err := config.Load(configFile())
	if err != nil {
		cfg = config.Default()
		setupLogging(cfg)
		slog.Warn("using default config", "error", err)
	} else {
		setupLogging(cfg)
	}

	out := cmd.OutOrStdout()
	a, err := openApp(cfg, projectDir())
	if err != nil {
		slog.Error("failed to open state", "error", err)
		writeVerdict(out, hook.NoOp())
		return nil
	}
	defer a.Close()

	serveHook(cmd.Context(), cmd.InOrStdin(), out, a.dispatcher())
	return nil
}

// serveHook reads the whole payload from in and writes one verdict line.
func serveHook(ctx context.Context, in io.Reader, out io.Writer, d *dispatch.Dispatcher) dispatch.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		slog.Error("Failed to read hook data", "error", err)
		outcome := dispatch.Outcome{Stage: dispatch.StageParseError, Verdict: hook.NoOp(), Err: err}
		writeVerdict(out, outcome.Verdict)
		return outcome
	}

	outcome := d.Handle(ctx, raw)
	if outcome.Stage == dispatch.StageParseError {
		slog.Error("Failed to parse hook data", "error", outcome.Err)
	}
	slog.Debug("hook handled", "stage", outcome.Stage, "decision", outcome.Verdict.Decision, "reason", outcome.Reason)
	writeVerdict(out, outcome.Verdict)
	return outcome
}

func writeVerdict(out io.Writer, v hook.Verdict) {
	fmt.Fprintln(out, string(v.JSON()))
}
