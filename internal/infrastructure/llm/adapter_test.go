package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
)

type recordedRequest struct {
	Path    string
	Headers http.Header
	Body    map[string]any
}

type fakeAPI struct {
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeAPI(status int, body string) *fakeAPI {
	f := &fakeAPI{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(raw, &decoded)

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Path: r.URL.Path, Headers: r.Header.Clone(), Body: decoded})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	return f
}

func (f *fakeAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) all() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

const chatCompletion = `{
  "id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "hello from openai"}}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

const claudeMessage = `{
  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-20250514",
  "content": [{"type": "text", "text": "hello "}, {"type": "text", "text": "from claude"}],
  "stop_reason": "end_turn", "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 4}
}`

const geminiResponse = `{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "hello from gemini"}]}, "finishReason": "STOP"}],
  "usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 3, "totalTokenCount": 10}
}`

func settingsFor(provider entity.Provider, baseURL, key string) llm.Settings {
	s := llm.DefaultSettings(provider)
	s.BaseURL = baseURL
	s.APIKey = key
	return s
}

var _ = Describe("OpenAIAdapter", func() {
	It("sends system and user messages with configured limits", func() {
		api := newFakeAPI(http.StatusOK, chatCompletion)
		defer api.server.Close()

		a, err := llm.NewOpenAIAdapter(entity.ProviderOpenAI, settingsFor(entity.ProviderOpenAI, api.server.URL, "sk-test"))
		Expect(err).NotTo(HaveOccurred())

		text, err := a.Send(context.Background(), llm.Prompt{System: "sys", User: "usr"})

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("hello from openai"))
		req := api.last()
		Expect(req.Path).To(HaveSuffix("/chat/completions"))
		Expect(req.Headers.Get("Authorization")).To(Equal("Bearer sk-test"))
		Expect(req.Body["model"]).To(Equal("gpt-4o-mini"))
		Expect(req.Body["max_tokens"]).To(BeNumerically("==", 1000))
		Expect(req.Body["temperature"]).To(BeNumerically("==", 0.7))
		messages := req.Body["messages"].([]any)
		Expect(messages).To(HaveLen(2))
		Expect(messages[0].(map[string]any)["role"]).To(Equal("system"))
		Expect(messages[1].(map[string]any)["content"]).To(Equal("usr"))
	})

	It("honours a per-call temperature", func() {
		api := newFakeAPI(http.StatusOK, chatCompletion)
		defer api.server.Close()
		a, _ := llm.NewOpenAIAdapter(entity.ProviderOpenAI, settingsFor(entity.ProviderOpenAI, api.server.URL, "sk"))

		t := 0.8
		_, err := a.Send(context.Background(), llm.Prompt{User: "u", Temperature: &t})

		Expect(err).NotTo(HaveOccurred())
		Expect(api.last().Body["temperature"]).To(BeNumerically("==", 0.8))
	})

	It("wraps API failures in ProviderError with the status code", func() {
		api := newFakeAPI(http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "invalid_request_error"}}`)
		defer api.server.Close()
		a, _ := llm.NewOpenAIAdapter(entity.ProviderOpenAI, settingsFor(entity.ProviderOpenAI, api.server.URL, "sk"))

		_, err := a.Send(context.Background(), llm.Prompt{User: "u"})

		var pe *llm.ProviderError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Provider).To(Equal(entity.ProviderOpenAI))
		Expect(pe.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(pe.Retryable()).To(BeFalse())
	})

	It("treats an empty completion as a provider error", func() {
		api := newFakeAPI(http.StatusOK, strings.Replace(chatCompletion, "hello from openai", "  ", 1))
		defer api.server.Close()
		a, _ := llm.NewOpenAIAdapter(entity.ProviderOpenAI, settingsFor(entity.ProviderOpenAI, api.server.URL, "sk"))

		_, err := a.Send(context.Background(), llm.Prompt{User: "u"})

		Expect(err).To(MatchError(llm.ErrEmptyResponse))
	})

	It("requires an API key", func() {
		_, err := llm.NewOpenAIAdapter(entity.ProviderOpenAI, llm.DefaultSettings(entity.ProviderOpenAI))
		Expect(err).To(MatchError(llm.ErrNoCredentials))
	})
})

var _ = Describe("XAI adapter", func() {
	It("reuses the OpenAI-compatible transport with the grok model", func() {
		api := newFakeAPI(http.StatusOK, chatCompletion)
		defer api.server.Close()

		a, err := llm.NewXAIAdapter(settingsFor(entity.ProviderXAI, api.server.URL, "xai-key"))
		Expect(err).NotTo(HaveOccurred())

		_, err = a.Send(context.Background(), llm.Prompt{User: "u"})

		Expect(err).NotTo(HaveOccurred())
		Expect(a.Provider()).To(Equal(entity.ProviderXAI))
		Expect(api.last().Body["model"]).To(Equal("grok-beta"))
	})

	It("defaults to the x.ai endpoint", func() {
		Expect(llm.DefaultSettings(entity.ProviderXAI).BaseURL).To(Equal("https://api.x.ai/v1"))
	})
})

var _ = Describe("ClaudeAdapter", func() {
	It("passes the system prompt separately and joins text blocks", func() {
		api := newFakeAPI(http.StatusOK, claudeMessage)
		defer api.server.Close()

		a, err := llm.NewClaudeAdapter(settingsFor(entity.ProviderClaude, api.server.URL, "sk-ant"))
		Expect(err).NotTo(HaveOccurred())

		text, err := a.Send(context.Background(), llm.Prompt{System: "be punchy", User: "topic"})

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("hello from claude"))
		req := api.last()
		Expect(req.Path).To(HaveSuffix("/v1/messages"))
		Expect(req.Headers.Get("X-Api-Key")).To(Equal("sk-ant"))
		Expect(req.Body["max_tokens"]).To(BeNumerically("==", 2000))
		Expect(req.Body["temperature"]).To(BeNumerically("==", 0.7))
		system := req.Body["system"].([]any)
		Expect(system[0].(map[string]any)["text"]).To(Equal("be punchy"))
	})
})

var _ = Describe("GeminiAdapter", func() {
	It("rotates the key on every call", func() {
		api := newFakeAPI(http.StatusOK, geminiResponse)
		defer api.server.Close()

		rotator := llm.NewKeyRotator(entity.ProviderGemini, []string{"g1", "g2"})
		a, err := llm.NewGeminiAdapter(rotator, settingsFor(entity.ProviderGemini, api.server.URL, ""))
		Expect(err).NotTo(HaveOccurred())

		for range 3 {
			text, err := a.Send(context.Background(), llm.Prompt{System: "sys", User: "usr"})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("hello from gemini"))
		}

		var keys []string
		for _, req := range api.all() {
			Expect(req.Path).To(HaveSuffix("gemini-2.5-flash:generateContent"))
			keys = append(keys, req.Headers.Get("X-Goog-Api-Key"))
		}
		Expect(keys).To(Equal([]string{"g1", "g2", "g1"}))
	})

	It("refuses to build without credentials", func() {
		_, err := llm.NewGeminiAdapter(llm.NewKeyRotator(entity.ProviderGemini, nil), llm.DefaultSettings(entity.ProviderGemini))
		Expect(err).To(MatchError(llm.ErrNoCredentials))
	})
})
