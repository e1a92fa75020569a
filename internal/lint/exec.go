package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Runner runs an external command and returns its stdout. Linters exit
// non-zero when they find issues, so implementations must return stdout
// even when the command fails.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, err error)
}

// ExecRunner runs commands on the host with a timeout.
type ExecRunner struct {
	Dir     string
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s failed: %w\nStderr: %s", name, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// exitedWithFindings reports whether err is a normal non-zero exit, which
// linters use to signal that issues were found.
func exitedWithFindings(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
