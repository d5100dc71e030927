package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/application/publishing"
	"social-ai-api/internal/domain/entity"
	apperrors "social-ai-api/pkg/errors"
)

var _ = Describe("PublishHandler", func() {
	var (
		pub *mockPublisher
		r   *gin.Engine
	)

	BeforeEach(func() {
		pub = &mockPublisher{}
		h := NewPublishHandler(pub)
		r = newEngine()
		r.POST("/v1/publish", h.Publish)
		r.GET("/v1/publish/platforms", h.Platforms)
	})

	It("publishes synchronously", func() {
		pub.result = &entity.PublishResult{Platform: entity.PlatformTwitter, PlatformPostID: "42", URL: "https://twitter.com/i/status/42"}
		w := doJSON(r, http.MethodPost, "/v1/publish", map[string]any{
			"platform": "x",
			"content":  "hello",
			"hashtags": []string{"#go"},
		})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(pub.enqueued).To(BeFalse())
		Expect(pub.gotIn.Platform).To(Equal(entity.PlatformTwitter))
		Expect(pub.gotIn.Hashtags).To(Equal([]string{"#go"}))
		Expect(decode(w)["data"].(map[string]any)["platform_post_id"]).To(Equal("42"))
	})

	It("enqueues with the request id when async", func() {
		pub.queued = &publishing.Queued{JobID: "job-1", MessageID: "1-0", Platform: entity.PlatformLinkedIn}
		w := doJSON(r, http.MethodPost, "/v1/publish", map[string]any{
			"platform": "linkedin",
			"content":  "hello",
			"async":    true,
		}, "X-Request-ID", "req-7")
		Expect(w.Code).To(Equal(http.StatusAccepted))
		Expect(pub.enqueued).To(BeTrue())
		Expect(pub.gotRequest).To(Equal("req-7"))
		Expect(decode(w)["data"].(map[string]any)["job_id"]).To(Equal("job-1"))
	})

	It("accepts async as a query parameter", func() {
		pub.queued = &publishing.Queued{JobID: "job-2"}
		w := doJSON(r, http.MethodPost, "/v1/publish?async=true", map[string]any{
			"platform": "twitter",
			"content":  "hello",
		})
		Expect(w.Code).To(Equal(http.StatusAccepted))
	})

	DescribeTable("maps publish errors",
		func(err error, status int) {
			pub.err = err
			w := doJSON(r, http.MethodPost, "/v1/publish", map[string]any{
				"platform": "twitter",
				"content":  "hello",
			})
			Expect(w.Code).To(Equal(status))
		},
		Entry("rejected content", apperrors.ErrContentRejected, http.StatusUnprocessableEntity),
		Entry("unavailable platform", apperrors.ErrPublishUnavailable, http.StatusServiceUnavailable),
		Entry("invalid input", apperrors.ErrInvalidParam.WithDetail("content is required"), http.StatusBadRequest),
	)

	It("rejects an unsupported platform", func() {
		w := doJSON(r, http.MethodPost, "/v1/publish", map[string]any{
			"platform": "facebook",
			"content":  "hello",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(w)["error"].(map[string]any)["error_code"]).To(Equal("4006"))
	})

	It("lists platform availability", func() {
		w := doJSON(r, http.MethodGet, "/v1/publish/platforms", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["data"]).To(HaveLen(1))
	})
})
