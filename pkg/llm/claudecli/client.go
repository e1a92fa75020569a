// Package claudecli implements llm.ModelClient by running the claude CLI
// as a subprocess.
package claudecli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/tddguard/pkg/llm"
)

const defaultTimeout = 60 * time.Second

// Args are the CLI arguments; the prompt is read from stdin.
var Args = []string{"-", "--output-format", "json", "--max-turns", "2", "--model", "sonnet"}

// Command is one subprocess invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Stdin string
}

// Runner executes a command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands on the host.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(c.Stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s timed out: %w", c.Name, ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w\nStderr: %s", c.Name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// Options configures a Client.
type Options struct {
	// Binary overrides the resolved claude binary.
	Binary    string
	UseSystem bool
	// WorkDir is the project directory; the CLI runs in WorkDir/.claude.
	WorkDir string
	Timeout time.Duration
	Runner  Runner
}

// Client asks the claude CLI.
type Client struct {
	binary  string
	dir     string
	timeout time.Duration
	runner  Runner
}

var _ llm.ModelClient = (*Client)(nil)

// BinaryPath resolves the claude binary: override when set, "claude" from
// PATH when useSystem, else the local install under $HOME.
func BinaryPath(override string, useSystem bool) string {
	if override != "" {
		return override
	}
	if useSystem {
		return "claude"
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude", "local", "claude")
}

func New(opts Options) *Client {
	c := &Client{
		binary:  BinaryPath(opts.Binary, opts.UseSystem),
		dir:     filepath.Join(opts.WorkDir, ".claude"),
		timeout: opts.Timeout,
		runner:  opts.Runner,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	return c
}

// Ask runs the CLI with prompt on stdin and returns the "result" field of
// its JSON output.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", c.dir, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, Command{Name: c.binary, Args: Args, Dir: c.dir, Stdin: prompt})
	if err != nil {
		return "", err
	}

	var resp struct {
		Result  *string `json:"result"`
		IsError bool    `json:"is_error"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", fmt.Errorf("parse claude output: %w", err)
	}
	if resp.Result == nil {
		return "", errors.New("claude output has no result")
	}
	return *resp.Result, nil
}
