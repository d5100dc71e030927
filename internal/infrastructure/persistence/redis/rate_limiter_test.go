package redis_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/infrastructure/persistence/redis"
)

var _ = Describe("RateLimiter", func() {
	var (
		ctx     context.Context
		limiter *redis.RateLimiter
	)

	BeforeEach(func() {
		ctx = context.Background()
		client, _ := newTestClient()
		limiter = redis.NewRateLimiter(client)
	})

	It("admits up to the limit inside one window and then rejects", func() {
		key := redis.BuildRateLimitKey("client-a", "/v1/content/generate")

		for i := range 3 {
			ok, remaining, err := limiter.Allow(ctx, key, 3, time.Minute)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(remaining).To(Equal(2 - i))
		}

		ok, remaining, err := limiter.Allow(ctx, key, 3, time.Minute)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(remaining).To(BeZero())
	})

	It("keeps clients independent and can be reset", func() {
		a := redis.BuildRateLimitKey("a", "/x")
		b := redis.BuildRateLimitKey("b", "/x")

		ok, _, _ := limiter.Allow(ctx, a, 1, time.Minute)
		Expect(ok).To(BeTrue())
		ok, _, _ = limiter.Allow(ctx, a, 1, time.Minute)
		Expect(ok).To(BeFalse())

		ok, _, _ = limiter.Allow(ctx, b, 1, time.Minute)
		Expect(ok).To(BeTrue())

		Expect(limiter.Reset(ctx, a)).To(Succeed())
		ok, _, _ = limiter.Allow(ctx, a, 1, time.Minute)
		Expect(ok).To(BeTrue())
	})

	It("builds namespaced keys", func() {
		Expect(redis.BuildRateLimitKey("1.2.3.4", "/v1/research")).To(Equal("ratelimit:1.2.3.4:/v1/research"))
	})
})
