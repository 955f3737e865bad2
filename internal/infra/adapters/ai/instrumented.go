package ai

import (
	"context"
	"time"

	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
	"github.com/jamesjscully/we-relate/internal/infra/metrics"
)

// Compile-time check
var _ adapter.AIServiceAdapter = (*instrumentedAI)(nil)

// instrumentedAI records latency and token usage for every completion call.
type instrumentedAI struct {
	inner adapter.AIServiceAdapter
}

func NewInstrumentedAI(inner adapter.AIServiceAdapter) adapter.AIServiceAdapter {
	return &instrumentedAI{inner: inner}
}

func (i *instrumentedAI) ListModels(ctx context.Context) ([]string, error) {
	return i.inner.ListModels(ctx)
}

func (i *instrumentedAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return i.inner.CountTokens(ctx, model, messages)
}

func (i *instrumentedAI) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	text, _, err := i.ChatWithUsage(ctx, req)
	return text, err
}

func (i *instrumentedAI) ChatWithUsage(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error) {
	start := time.Now()
	text, usage, err := i.inner.ChatWithUsage(ctx, req)
	metrics.ObserveChatUsage(
		req.Model,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens,
		time.Since(start).Milliseconds(),
		err == nil,
	)
	return text, usage, err
}
