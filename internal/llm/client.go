// Package llm is the boundary to the language-model collaborator. The
// Requester converts every transport failure into a reply string, so every
// downstream stage can treat "got a reply" as a total function.
package llm

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OversizedReply is the sentinel substituted when the composed document
// exceeds the model's context window. The verdict parser detects it as a
// failure signature, so its wording is load-bearing.
const OversizedReply = "Opa! Não consigo tankar este caso, pois há muitas transações. Chame um analista humano - ou reptiliano - para resolver"

var tracer = otel.Tracer("heron-llm")

// Client is the raw chat-completion transport.
type Client interface {
	// Complete sends one system turn and one user turn and returns the
	// model's free-text reply.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Requester wraps a Client with the failure-to-string policy: an
// oversized-input error becomes the sentinel reply, any other transport
// error becomes a formatted error string. No retries happen here; retry
// policy, if any, belongs to the orchestrator.
type Requester struct {
	client Client
	system string
}

// NewRequester creates a requester with a fixed system instruction.
func NewRequester(client Client, system string) *Requester {
	return &Requester{
		client: client,
		system: system,
	}
}

// RequestVerdict sends the composed document and always returns a reply
// string.
func (r *Requester) RequestVerdict(ctx context.Context, document string) string {
	ctx, span := r.tracerStart(ctx, len(document))
	defer span.End()

	reply, err := r.client.Complete(ctx, r.system, document)
	if err != nil {
		span.RecordError(err)
		if isOversizedInput(err) {
			return OversizedReply
		}
		return fmt.Sprintf("An error occurred: %v", err)
	}
	return strings.TrimSpace(reply)
}

func (r *Requester) tracerStart(ctx context.Context, promptLen int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "llm.request",
		trace.WithAttributes(
			attribute.Int("prompt.length", promptLen),
		),
	)
}

func isOversizedInput(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "context_length_exceeded")
}
