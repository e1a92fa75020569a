package lint

import (
	"fmt"
	"sort"
	"time"
)

// Options configures the linters built by a Registry.
type Options struct {
	Dir        string
	ConfigPath string
	Timeout    time.Duration
	Runner     Runner
}

// Factory builds a linter from options.
type Factory func(opts Options) Linter

// Registry holds the known linter factories and provides lookup by name.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with ESLint and golangci-lint registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("eslint", func(opts Options) Linter {
		return &ESLint{Runner: opts.Runner, ConfigPath: opts.ConfigPath}
	})
	r.Register("golangci-lint", func(opts Options) Linter {
		return &GolangciLint{Runner: opts.Runner, ConfigPath: opts.ConfigPath}
	})
	return r
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered linter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns the linter for the configured type. An empty type means
// linting is disabled and yields nil; "all" runs every registered linter.
func (r *Registry) Build(linterType string, opts Options) (Linter, error) {
	if opts.Runner == nil {
		opts.Runner = ExecRunner{Dir: opts.Dir, Timeout: opts.Timeout}
	}

	switch linterType {
	case "", "none":
		return nil, nil
	case "all":
		c := &Composite{}
		for _, name := range r.Names() {
			c.Linters = append(c.Linters, r.factories[name](opts))
		}
		return c, nil
	}

	f, ok := r.factories[linterType]
	if !ok {
		return nil, fmt.Errorf("unknown linter type: %s", linterType)
	}
	return f(opts), nil
}
