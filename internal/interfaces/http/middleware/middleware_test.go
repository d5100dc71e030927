package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	goredis "github.com/redis/go-redis/v9"

	"social-ai-api/internal/infrastructure/persistence/redis"
)

type stubLimiter struct {
	allowed   bool
	remaining int
	err       error
	keys      []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, int, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.remaining, s.err
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var _ = Describe("RequestID", func() {
	var r *gin.Engine

	BeforeEach(func() {
		r = gin.New()
		r.Use(RequestID())
		r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })
	})

	It("keeps a caller supplied id", func() {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(RequestIDHeader, "abc")
		w := serve(r, req)
		Expect(w.Body.String()).To(Equal("abc"))
		Expect(w.Header().Get(RequestIDHeader)).To(Equal("abc"))
	})

	It("generates one when missing", func() {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		Expect(w.Body.String()).To(HaveLen(36))
	})
})

var _ = Describe("ProviderCredential", func() {
	It("exposes the key to handlers and strips the header", func() {
		r := gin.New()
		r.Use(ProviderCredential())
		var header string
		r.GET("/x", func(c *gin.Context) {
			header = c.GetHeader(ProviderKeyHeader)
			c.String(http.StatusOK, CredentialFrom(c))
		})

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(ProviderKeyHeader, "  sk-live  ")
		w := serve(r, req)
		Expect(w.Body.String()).To(Equal("sk-live"))
		Expect(header).To(BeEmpty())
	})
})

var _ = Describe("RateLimit", func() {
	newRouter := func(cfg RateLimitConfig, limiter RateLimiter) *gin.Engine {
		r := gin.New()
		r.Use(RateLimit(cfg, limiter))
		r.GET("/v1/providers", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	It("passes through when disabled", func() {
		limiter := &stubLimiter{}
		w := serve(newRouter(RateLimitConfig{Enabled: false}, limiter), httptest.NewRequest(http.MethodGet, "/v1/providers", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(limiter.keys).To(BeEmpty())
	})

	It("keys by client and route and sets headers", func() {
		limiter := &stubLimiter{allowed: true, remaining: 9}
		req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := serve(newRouter(RateLimitConfig{Enabled: true, RequestsPerMinute: 10}, limiter), req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(limiter.keys).To(ConsistOf("ratelimit:10.0.0.1:/v1/providers"))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("10"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("9"))
	})

	It("rejects with 429 when over the limit", func() {
		w := serve(newRouter(RateLimitConfig{Enabled: true}, &stubLimiter{}), httptest.NewRequest(http.MethodGet, "/v1/providers", nil))
		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(w.Header().Get("Retry-After")).To(Equal("60"))
		Expect(w.Body.String()).To(ContainSubstring(`"error_code":"1006"`))
	})

	It("fails open when the limiter errors", func() {
		w := serve(newRouter(RateLimitConfig{Enabled: true}, &stubLimiter{err: errors.New("redis down")}), httptest.NewRequest(http.MethodGet, "/v1/providers", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("enforces the window with the redis limiter", func() {
		mr := miniredis.RunT(GinkgoT())
		rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		DeferCleanup(rdb.Close)

		r := newRouter(RateLimitConfig{Enabled: true, RequestsPerMinute: 2}, redis.NewRateLimiter(redis.Wrap(rdb)))
		codes := make([]int, 0, 3)
		for range 3 {
			codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/v1/providers", nil)).Code)
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight for an allowed origin", func() {
		r := gin.New()
		r.Use(CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}))
		r.POST("/v1/content/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/v1/content/generate", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", ProviderKeyHeader)
		w := serve(r, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	})
})
