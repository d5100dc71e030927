package research_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/application/research"
	"social-ai-api/internal/config"
	apperrors "social-ai-api/pkg/errors"
)

var _ = Describe("PerplexityProvider", func() {
	ctx := context.Background()

	It("sends the research query and parses the reply", func() {
		stub := &stubAdapter{reply: "Usage increased 40% last year."}
		p := research.NewProvider(stub)

		bundle, err := p.Research(ctx, "electric bikes", "focus on cities")

		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.Findings).To(Equal([]string{"Usage increased 40% last year."}))
		Expect(bundle.Timestamp.IsZero()).To(BeFalse())

		prompt := stub.prompts[0]
		Expect(prompt.System).To(ContainSubstring("research assistant"))
		Expect(prompt.User).To(HavePrefix("Research the topic: electric bikes\n\nPlease provide:"))
		Expect(prompt.User).To(HaveSuffix("\n\nAdditional context: focus on cities"))
		Expect(prompt.Temperature).To(BeNil())
	})

	It("omits the context block when none is given", func() {
		Expect(research.Query("ai", "  ")).NotTo(ContainSubstring("Additional context"))
	})

	It("wraps upstream failures as research failures", func() {
		p := research.NewProvider(&stubAdapter{err: errors.New("timeout")})

		_, err := p.Research(ctx, "t", "")

		appErr := apperrors.AsAppError(err)
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Code).To(Equal(apperrors.CodeResearchFailed))
	})

	It("asks for trending topics with a warmer temperature", func() {
		stub := &stubAdapter{reply: "1. Generative video tools\n2. Open source LLMs"}
		p := research.NewProvider(stub)

		topics, err := p.TrendingTopics(ctx, "tech")

		Expect(err).NotTo(HaveOccurred())
		Expect(topics).To(Equal([]string{"Generative video tools", "Open source LLMs"}))
		Expect(stub.prompts[0].User).To(Equal("What are the current trending topics in tech that would be good for social media content?"))
		Expect(*stub.prompts[0].Temperature).To(BeNumerically("~", 0.3))
		Expect(stub.prompts[0].MaxTokens).To(Equal(1000))
	})

	It("talks to the chat completions endpoint", func() {
		var body map[string]any
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/chat/completions"))
			auth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","created":1,"model":"sonar-pro",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Sales rose 12 percent."}}],
"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`)
		}))
		DeferCleanup(server.Close)

		p, err := research.NewPerplexityProvider(config.ResearchConfig{APIKey: "pplx-key", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())

		bundle, err := p.Research(ctx, "retail", "")

		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.Findings).To(Equal([]string{"Sales rose 12 percent."}))
		Expect(auth).To(Equal("Bearer pplx-key"))
		Expect(body["model"]).To(Equal("sonar-pro"))
		Expect(body["temperature"]).To(BeNumerically("~", 0.2))
		Expect(body["max_tokens"]).To(BeNumerically("==", 2000))
	})

	It("refuses to start without a key", func() {
		_, err := research.NewPerplexityProvider(config.ResearchConfig{})
		Expect(err).To(HaveOccurred())
	})
})
