package generation_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
)

var _ = Describe("Orchestrator", func() {
	var (
		ctx    context.Context
		log    *callLog
		prompt llm.Prompt
	)

	BeforeEach(func() {
		ctx = context.Background()
		log = &callLog{}
		prompt = llm.Prompt{System: "sys", User: "usr"}
	})

	It("returns the preferred provider's text without touching others", func() {
		pool := llm.NewPool(
			replying(entity.ProviderClaude, log, "claude text"),
			replying(entity.ProviderOpenAI, log, "openai text"),
		)

		out, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderOpenAI, prompt, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("openai text"))
		Expect(out.Provider).To(Equal(entity.ProviderOpenAI))
		Expect(log.list()).To(Equal([]entity.Provider{entity.ProviderOpenAI}))
	})

	It("uses gemini when claude is unconfigured", func() {
		pool := llm.NewPool(
			replying(entity.ProviderGemini, log, "gemini text"),
			replying(entity.ProviderOpenAI, log, "openai text"),
		)

		out, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderClaude, prompt, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("gemini text"))
		Expect(log.list()).To(Equal([]entity.Provider{entity.ProviderGemini}))
	})

	It("walks the fixed order after the preferred provider fails", func() {
		pool := llm.NewPool(
			failing(entity.ProviderClaude, log),
			failing(entity.ProviderGemini, log),
			replying(entity.ProviderOpenAI, log, "openai text"),
			failing(entity.ProviderXAI, log),
		)

		out, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderXAI, prompt, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("openai text"))
		Expect(out.Provider).To(Equal(entity.ProviderOpenAI))
		Expect(log.list()).To(Equal([]entity.Provider{
			entity.ProviderXAI, entity.ProviderClaude, entity.ProviderGemini, entity.ProviderOpenAI,
		}))
	})

	It("skips the failed preferred provider during fallback", func() {
		pool := llm.NewPool(
			replying(entity.ProviderClaude, log, "claude text"),
			failing(entity.ProviderGemini, log),
			replying(entity.ProviderOpenAI, log, "openai text"),
		)

		out, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderGemini, prompt, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("claude text"))
		Expect(log.list()).To(Equal([]entity.Provider{entity.ProviderGemini, entity.ProviderClaude}))
	})

	It("does not invoke providers later than the first successful fallback", func() {
		pool := llm.NewPool(
			failing(entity.ProviderXAI, log),
			failing(entity.ProviderClaude, log),
			replying(entity.ProviderGemini, log, "gemini text"),
			replying(entity.ProviderOpenAI, log, "openai text"),
		)

		out, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderXAI, prompt, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("gemini text"))
		Expect(log.list()).To(Equal([]entity.Provider{entity.ProviderXAI, entity.ProviderClaude, entity.ProviderGemini}))
	})

	It("fails with AllProvidersFailedError when nothing is configured", func() {
		_, err := generation.NewOrchestrator(llm.NewPool()).Generate(ctx, entity.ProviderClaude, prompt, nil)

		var allFailed *generation.AllProvidersFailedError
		Expect(errors.As(err, &allFailed)).To(BeTrue())
		Expect(allFailed.Attempts).To(BeEmpty())
	})

	It("reports every attempt when all configured providers fail", func() {
		pool := llm.NewPool(failing(entity.ProviderClaude, log), failing(entity.ProviderOpenAI, log))

		_, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderOpenAI, prompt, nil)

		var allFailed *generation.AllProvidersFailedError
		Expect(errors.As(err, &allFailed)).To(BeTrue())
		Expect(allFailed.Attempts).To(HaveLen(2))
		Expect(allFailed.Attempts[0].Provider).To(Equal(entity.ProviderOpenAI))
		Expect(allFailed.Attempts[1].Provider).To(Equal(entity.ProviderClaude))
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("prefers the override adapter over the pooled one", func() {
		pool := llm.NewPool(replying(entity.ProviderClaude, log, "pooled"))
		override := replying(entity.ProviderClaude, nil, "user key")

		out, err := generation.NewOrchestrator(pool).Generate(ctx, entity.ProviderClaude, prompt, override)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.Text).To(Equal("user key"))
		Expect(log.list()).To(BeEmpty())
	})

	It("stops walking when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancelling := &mockAdapter{provider: entity.ProviderClaude, log: log, sendFn: func(context.Context, llm.Prompt) (string, error) {
			cancel()
			return "", context.Canceled
		}}
		pool := llm.NewPool(cancelling, replying(entity.ProviderGemini, log, "gemini"))

		_, err := generation.NewOrchestrator(pool).Generate(cctx, entity.ProviderClaude, prompt, nil)

		Expect(err).To(MatchError(context.Canceled))
		Expect(log.list()).To(Equal([]entity.Provider{entity.ProviderClaude}))
	})
})
