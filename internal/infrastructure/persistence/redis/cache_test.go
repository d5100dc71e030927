package redis_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/infrastructure/persistence/redis"
)

type payload struct {
	Query    string   `json:"query"`
	Findings []string `json:"findings"`
}

var _ = Describe("Cache", func() {
	var (
		ctx   context.Context
		cache *redis.Cache
	)

	BeforeEach(func() {
		ctx = context.Background()
		client, _ := newTestClient()
		cache = redis.NewCache(client, "test:")
	})

	It("reports a miss as redis.Nil", func() {
		_, err := cache.Get(ctx, "missing")
		Expect(redis.IsNil(err)).To(BeTrue())
	})

	It("stores JSON under the prefixed key", func() {
		Expect(cache.Set(ctx, "k", payload{Query: "q"}, time.Minute)).To(Succeed())

		raw, err := cache.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{"query":"q","findings":null}`))

		Expect(cache.Delete(ctx, "k")).To(Succeed())
		_, err = cache.Get(ctx, "k")
		Expect(redis.IsNil(err)).To(BeTrue())
	})

	It("loads once and serves later calls from cache", func() {
		var calls atomic.Int32
		loader := func(context.Context) (payload, error) {
			calls.Add(1)
			return payload{Query: "ai", Findings: []string{"f1"}}, nil
		}

		first, hit, err := redis.GetOrLoadJSON(ctx, cache, "ai", time.Minute, loader)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())

		second, hit, err := redis.GetOrLoadJSON(ctx, cache, "ai", time.Minute, loader)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeTrue())
		Expect(second).To(Equal(first))
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("collapses concurrent loads for the same key", func() {
		var calls atomic.Int32
		release := make(chan struct{})
		loader := func(context.Context) (payload, error) {
			calls.Add(1)
			<-release
			return payload{Query: "shared"}, nil
		}

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				got, _, err := redis.GetOrLoadJSON(ctx, cache, "shared", time.Minute, loader)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Query).To(Equal("shared"))
			}()
		}
		Eventually(calls.Load).Should(BeNumerically(">=", 1))
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("does not cache loader failures", func() {
		boom := errors.New("boom")
		_, _, err := redis.GetOrLoadJSON(ctx, cache, "bad", time.Minute, func(context.Context) (payload, error) {
			return payload{}, boom
		})
		Expect(err).To(MatchError(boom))

		_, err = cache.Get(ctx, "bad")
		Expect(redis.IsNil(err)).To(BeTrue())
	})
})
