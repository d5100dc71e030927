package messaging

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var _ = Describe("trace propagation", func() {
	It("carries the producer span context in message metadata", func() {
		prev := otel.GetTextMapPropagator()
		otel.SetTextMapPropagator(propagation.TraceContext{})
		DeferCleanup(func() { otel.SetTextMapPropagator(prev) })

		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x01, 0x02, 0x03},
			SpanID:     trace.SpanID{0x0a},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		msg, err := NewMessage("job-1", TypePublishPost, &PublishJobMessage{JobID: "job-1"})
		Expect(err).NotTo(HaveOccurred())
		injectTrace(ctx, msg)
		Expect(msg.Meta("traceparent")).NotTo(BeEmpty())

		got := trace.SpanContextFromContext(extractTrace(context.Background(), msg))
		Expect(got.TraceID()).To(Equal(sc.TraceID()))
		Expect(got.IsRemote()).To(BeTrue())
	})
})
