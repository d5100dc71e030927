package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/metrics"
	"social-ai-api/pkg/tracer"
)

// instrumented 为适配器增加追踪、指标与日志
type instrumented struct {
	Adapter
}

// Instrument 包装适配器，重复包装时直接返回
func Instrument(a Adapter) Adapter {
	if a == nil {
		return nil
	}
	if _, ok := a.(*instrumented); ok {
		return a
	}
	return &instrumented{Adapter: a}
}

func (i *instrumented) Send(ctx context.Context, p Prompt) (text string, err error) {
	provider := string(i.Provider())
	model := i.Model()

	ctx, span := tracer.Start(ctx, "llm.send")
	start := time.Now()
	defer func() {
		metrics.ObserveLLMCall(provider, model, start, err)
		tracer.Finish(span, err,
			attribute.String("llm.provider", provider),
			attribute.String("llm.model", model),
			attribute.Int("llm.response_chars", len(text)),
		)
	}()

	text, err = i.Adapter.Send(ctx, p)

	log := logger.FromContext(ctx).With("provider", provider, "model", model, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		log.WarnContext(ctx, "llm call failed", "error", err.Error())
		return "", err
	}
	log.DebugContext(ctx, "llm call completed", "response_chars", len(text))
	return text, nil
}

var _ Adapter = (*instrumented)(nil)

// providerName 用于日志
func providerName(p entity.Provider) string {
	return string(p)
}
