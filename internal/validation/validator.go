// Package validation asks a reasoning model whether a proposed change
// follows test-driven development.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	tddcontext "github.com/user/tddguard/internal/context"
	"github.com/user/tddguard/internal/hook"
	"github.com/user/tddguard/pkg/llm"
)

var tracer = otel.Tracer("github.com/user/tddguard/internal/validation")

// Validator renders the assembled context into a prompt and asks the model
// client for a verdict.
type Validator struct {
	client  llm.ModelClient
	engine  *tddcontext.Engine
	backend string
}

// New creates a validator. backend names the client type in traces.
func New(client llm.ModelClient, engine *tddcontext.Engine, backend string) *Validator {
	return &Validator{client: client, engine: engine, backend: backend}
}

// Validate returns the model's verdict for c. Errors are returned to the
// caller, which decides how to fail.
func (v *Validator) Validate(ctx context.Context, c tddcontext.Context) (verdict hook.Verdict, err error) {
	prompt, err := v.engine.BuildPrompt(c)
	if err != nil {
		return hook.Verdict{}, err
	}

	ctx, span := tracer.Start(ctx, "validation.ask",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("tddguard.backend", v.backend),
			attribute.Int("tddguard.prompt_bytes", len(prompt)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("tddguard.decision", string(verdict.Decision)))
		}
		span.End()
	}()

	start := time.Now()
	text, err := v.client.Ask(ctx, prompt)
	if err != nil {
		return hook.Verdict{}, fmt.Errorf("ask %s: %w", v.backend, err)
	}
	slog.Debug("model responded", "backend", v.backend, "duration", time.Since(start))

	verdict, err = ParseResponse(text)
	if err != nil {
		slog.Debug("unparseable model response", "response", text)
		return hook.Verdict{}, err
	}
	return verdict, nil
}
