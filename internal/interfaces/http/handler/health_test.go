package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/domain/entity"
)

type fakeChecker struct{ err error }

func (f fakeChecker) HealthCheck(context.Context) error { return f.err }

type fakeProviders []entity.Provider

func (f fakeProviders) Configured() []entity.Provider { return f }

var _ = Describe("HealthHandler", func() {
	route := func(h *HealthHandler) *gin.Engine {
		r := gin.New()
		r.GET("/health", h.Health)
		r.GET("/ready", h.Ready)
		r.GET("/live", h.Live)
		return r
	}

	It("reports liveness and version", func() {
		r := route(NewHealthHandler("1.2.3", nil, nil))
		w := doJSON(r, http.MethodGet, "/health", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["version"]).To(Equal("1.2.3"))
		Expect(doJSON(r, http.MethodGet, "/live", nil).Code).To(Equal(http.StatusOK))
	})

	It("is ready with a provider and redis disabled", func() {
		r := route(NewHealthHandler("", nil, fakeProviders{entity.ProviderGemini}))
		w := doJSON(r, http.MethodGet, "/ready", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		checks := decode(w)["checks"].(map[string]any)
		Expect(checks["redis"].(map[string]any)["status"]).To(Equal("disabled"))
	})

	It("is not ready without any provider", func() {
		r := route(NewHealthHandler("", nil, fakeProviders{}))
		w := doJSON(r, http.MethodGet, "/ready", nil)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(decode(w)["status"]).To(Equal("not_ready"))
	})

	It("is not ready when redis is unreachable", func() {
		r := route(NewHealthHandler("", fakeChecker{err: errors.New("dial tcp: refused")}, fakeProviders{entity.ProviderClaude}))
		w := doJSON(r, http.MethodGet, "/ready", nil)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		checks := decode(w)["checks"].(map[string]any)
		Expect(checks["redis"].(map[string]any)["error"]).To(ContainSubstring("refused"))
	})
})
