package lint

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Composite runs several linters over the same files concurrently and
// concatenates their issues in linter order.
type Composite struct {
	Linters []Linter
}

func (c *Composite) Name() string {
	names := make([]string, len(c.Linters))
	for i, l := range c.Linters {
		names[i] = l.Name()
	}
	return strings.Join(names, "+")
}

func (c *Composite) Lint(ctx context.Context, files []string) (Result, error) {
	results := make([]Result, len(c.Linters))

	g, ctx := errgroup.WithContext(ctx)
	for i, l := range c.Linters {
		g.Go(func() error {
			r, err := l.Lint(ctx, files)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var issues []Issue
	for _, r := range results {
		issues = append(issues, r.Issues...)
	}
	return NewResult(files, issues), nil
}
