package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/tddguard/internal/config"
	"github.com/user/tddguard/internal/hook"
)

var (
	cfgPath string
	// cfgSet records whether --config was given on the command line.
	cfgSet bool
)

var rootCmd = &cobra.Command{
	Use:   "tddguard",
	Short: "Keep a coding agent on the red-green-refactor path",
	Long: `tddguard reads one hook event as JSON on stdin and prints one JSON verdict
on stdout. Register it as the command for the SessionStart, UserPromptSubmit,
PreToolUse and PostToolUse hooks.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runHook,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfgSet = cmd.Flags().Changed("config")
	}
}

func main() {
	cmd, err := rootCmd.ExecuteC()
	os.Exit(exitCode(cmd, err, os.Stdout, os.Stderr))
}

// exitCode reports err on errOut. A failure of the hook command itself
// still prints a no-op verdict and exits 0 so the agent is never blocked
// by a bad invocation.
func exitCode(cmd *cobra.Command, err error, out, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(errOut, "Error:", err)
	if cmd == nil || !cmd.HasParent() {
		writeVerdict(out, hook.NoOp())
		return 0
	}
	return 1
}

// projectDir is the directory the agent is working in.
func projectDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// configFile resolves the default config path against the project dir.
func configFile() string {
	if filepath.IsAbs(cfgPath) || cfgSet {
		return cfgPath
	}
	return filepath.Join(projectDir(), cfgPath)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// setupLogging sends logs to stderr; stdout carries the verdict.
func setupLogging(cfg *config.Config) {
	level := parseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
