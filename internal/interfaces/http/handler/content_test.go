package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/domain/entity"
)

var _ = Describe("ContentHandler", func() {
	var (
		svc *mockContentService
		r   *gin.Engine
	)

	BeforeEach(func() {
		svc = &mockContentService{}
		h := NewContentHandler(svc, entity.ProviderGemini)
		r = newEngine()
		r.POST("/v1/content/generate", h.Generate)
		r.POST("/v1/content/variations", h.Variations)
		r.GET("/v1/providers", h.Providers)
	})

	Describe("Generate", func() {
		It("passes parsed input and the request credential to the service", func() {
			svc.results = []entity.PlatformResult{{
				Platform: entity.PlatformTwitter,
				Content: &entity.GeneratedContent{
					Platform:    entity.PlatformTwitter,
					Provider:    entity.ProviderGemini,
					Suggestions: []entity.Suggestion{entity.NewSuggestion("hello", []string{"#go"}, "")},
				},
			}}

			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":            "go generics",
				"platforms":        []string{"Twitter"},
				"include_research": false,
			}, "X-Provider-Key", "sk-request")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(svc.generateIn.Topic).To(Equal("go generics"))
			Expect(svc.generateIn.Platforms).To(Equal([]entity.Platform{entity.PlatformTwitter}))
			Expect(svc.generateIn.Provider).To(Equal(entity.ProviderGemini))
			Expect(svc.generateIn.IncludeResearch).To(BeFalse())
			Expect(svc.generateIn.Credential).To(Equal("sk-request"))

			data := decode(w)["data"].(map[string]any)
			results := data["results"].([]any)
			Expect(results).To(HaveLen(1))
			Expect(results[0].(map[string]any)["provider"]).To(Equal("gemini"))
		})

		It("echoes research data on each platform result", func() {
			bundle := &entity.ResearchBundle{Query: "ebikes", Findings: []string{"Sales grew 40%"}}
			svc.research = bundle
			svc.results = []entity.PlatformResult{
				{Platform: entity.PlatformLinkedIn, Content: &entity.GeneratedContent{
					Platform:     entity.PlatformLinkedIn,
					Provider:     entity.ProviderClaude,
					Suggestions:  []entity.Suggestion{entity.NewSuggestion("x", nil, "")},
					ResearchData: bundle,
				}},
				{Platform: entity.PlatformTwitter, Err: errors.New("twitter: boom")},
			}

			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":     "ebikes",
				"platforms": []string{"linkedin", "twitter"},
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			data := decode(w)["data"].(map[string]any)
			Expect(data["research_data"].(map[string]any)["query"]).To(Equal("ebikes"))
			results := data["results"].([]any)
			linkedin := results[0].(map[string]any)
			Expect(linkedin["research_data"].(map[string]any)["findings"]).To(Equal([]any{"Sales grew 40%"}))
			Expect(results[1].(map[string]any)).NotTo(HaveKey("research_data"))
		})

		It("defaults research to enabled", func() {
			svc.results = []entity.PlatformResult{{Platform: entity.PlatformLinkedIn, Content: &entity.GeneratedContent{}}}
			doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":       "t",
				"platforms":   []string{"linkedin"},
				"ai_provider": "anthropic",
			})
			Expect(svc.generateIn.IncludeResearch).To(BeTrue())
			Expect(svc.generateIn.Provider).To(Equal(entity.ProviderClaude))
		})

		It("rejects an unsupported platform", func() {
			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":     "t",
				"platforms": []string{"myspace"},
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)["error"].(map[string]any)["details"]).To(Equal("myspace"))
		})

		It("rejects an unknown provider", func() {
			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":       "t",
				"platforms":   []string{"twitter"},
				"ai_provider": "llama",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a missing topic", func() {
			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"platforms": []string{"twitter"},
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("keeps per-platform errors when some platforms succeed", func() {
			svc.results = []entity.PlatformResult{
				{Platform: entity.PlatformTwitter, Content: &entity.GeneratedContent{Provider: entity.ProviderClaude}},
				{Platform: entity.PlatformLinkedIn, Err: &generation.PlatformError{Platform: entity.PlatformLinkedIn, Err: errors.New("boom")}},
			}
			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":     "t",
				"platforms": []string{"twitter", "linkedin"},
			})
			Expect(w.Code).To(Equal(http.StatusOK))
			results := decode(w)["data"].(map[string]any)["results"].([]any)
			Expect(results[1].(map[string]any)["error"]).To(ContainSubstring("linkedin"))
		})

		It("responds 502 when every provider failed for every platform", func() {
			allFailed := &generation.AllProvidersFailedError{Preferred: entity.ProviderClaude}
			svc.results = []entity.PlatformResult{
				{Platform: entity.PlatformTwitter, Err: &generation.PlatformError{Platform: entity.PlatformTwitter, Err: allFailed}},
			}
			w := doJSON(r, http.MethodPost, "/v1/content/generate", map[string]any{
				"topic":     "t",
				"platforms": []string{"twitter"},
			})
			Expect(w.Code).To(Equal(http.StatusBadGateway))
			Expect(decode(w)["error"].(map[string]any)["error_code"]).To(Equal("4002"))
		})
	})

	Describe("Variations", func() {
		It("returns the variations and the provider that produced them", func() {
			svc.variations = []string{"a", "b"}
			svc.variationUsed = entity.ProviderOpenAI

			w := doJSON(r, http.MethodPost, "/v1/content/variations", map[string]any{
				"content":  "original",
				"platform": "twitter",
				"count":    2,
			})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(svc.variationIn.Count).To(Equal(2))
			Expect(svc.variationIn.Provider).To(Equal(entity.ProviderGemini))

			data := decode(w)["data"].(map[string]any)
			Expect(data["original_content"]).To(Equal("original"))
			Expect(data["variations"]).To(HaveLen(2))
			Expect(data["provider"]).To(Equal("openai"))
		})

		It("rejects a count above five", func() {
			w := doJSON(r, http.MethodPost, "/v1/content/variations", map[string]any{
				"content":  "original",
				"platform": "twitter",
				"count":    9,
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("lists providers with the default", func() {
		svc.infos = []entity.ProviderInfo{{Provider: entity.ProviderClaude, Available: true}}
		w := doJSON(r, http.MethodGet, "/v1/providers", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		data := decode(w)["data"].(map[string]any)
		Expect(data["default_provider"]).To(Equal("gemini"))
		Expect(data["providers"]).To(HaveLen(1))
	})
})
