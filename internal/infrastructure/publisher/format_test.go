package publisher_test

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/publisher"
)

var _ = Describe("Format", func() {
	It("appends LinkedIn hashtags after a blank line", func() {
		out := publisher.Format(entity.PlatformLinkedIn, "Big news.", []string{"AI", "#Tech"})
		Expect(out).To(Equal("Big news.\n\n#AI #Tech"))
	})

	It("appends X hashtags on the same line", func() {
		out := publisher.Format(entity.PlatformTwitter, "Big news.", []string{"AI"})
		Expect(out).To(Equal("Big news. #AI"))
	})

	It("drops hashtags that would not fit", func() {
		content := strings.Repeat("a", 275)
		out := publisher.Format(entity.PlatformTwitter, content, []string{"TooLong"})
		Expect(out).To(Equal(content))
	})

	It("truncates over-long text to the limit with an ellipsis", func() {
		out := publisher.Format(entity.PlatformTwitter, strings.Repeat("é", 300), nil)

		Expect(utf8.RuneCountInString(out)).To(Equal(280))
		Expect(out).To(HaveSuffix("é..."))
	})

	It("leaves text at the limit untouched", func() {
		content := strings.Repeat("b", 3000)
		Expect(publisher.Format(entity.PlatformLinkedIn, content, nil)).To(Equal(content))
	})
})
