// internal/state/decision.go
package state

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/tddguard/internal/types"
)

// DecisionLog is a JSONL-backed append-only log of hook outcomes,
// stored in decisions.jsonl under the data directory.
type DecisionLog struct {
	root string
	mu   sync.Mutex
}

// NewDecisionLog creates a file-backed DecisionLog rooted at the given directory.
func NewDecisionLog(root string) *DecisionLog {
	return &DecisionLog{root: root}
}

func (l *DecisionLog) logPath() string {
	return filepath.Join(l.root, "decisions.jsonl")
}

// count reads the log file and counts lines. Caller must hold mu.
func (l *DecisionLog) count() (int64, error) {
	f, err := os.Open(l.logPath())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open decision log: %w", err)
	}
	defer f.Close()

	var count int64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan decision log: %w", err)
	}
	return count, nil
}

// Append adds a decision with an auto-incremented sequence number. A
// missing ID is filled in.
func (l *DecisionLog) Append(_ context.Context, d *types.Decision) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	existing, err := l.count()
	if err != nil {
		return err
	}
	d.Seq = existing + 1
	if d.ID == "" {
		d.ID = types.NewDecisionID()
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}

	f, err := os.OpenFile(l.logPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open decision log: %w", err)
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}

// Tail returns the last N decisions.
func (l *DecisionLog) Tail(_ context.Context, limit int) ([]*types.Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.logPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open decision log: %w", err)
	}
	defer f.Close()

	var decisions []*types.Decision
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var d types.Decision
		if err := json.Unmarshal(scanner.Bytes(), &d); err != nil {
			return nil, fmt.Errorf("unmarshal decision: %w", err)
		}
		decisions = append(decisions, &d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan decision log: %w", err)
	}

	if len(decisions) > limit {
		decisions = decisions[len(decisions)-limit:]
	}
	return decisions, nil
}

// Count returns the number of logged decisions.
func (l *DecisionLog) Count(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count()
}
