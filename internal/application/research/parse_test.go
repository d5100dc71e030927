package research_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"social-ai-api/internal/application/research"
)

var _ = Describe("Parse", func() {
	It("keeps statistic lines as findings and attribution lines as sources", func() {
		content := strings.Join([]string{
			"# Remote work",
			"",
			"- Adoption grew 35% since 2020",
			"- According to Gallup, hybrid is the norm",
			"- Offices are changing",
			"Source: Pew Research",
		}, "\n")

		bundle := research.Parse(content, "remote work")

		Expect(bundle.Query).To(Equal("remote work"))
		Expect(bundle.Findings).To(Equal([]string{
			"- Adoption grew 35% since 2020",
			"- According to Gallup, hybrid is the norm",
		}))
		Expect(bundle.Sources).To(Equal([]string{
			"- According to Gallup, hybrid is the norm",
			"Source: Pew Research",
		}))
		Expect(bundle.FullContent).To(Equal(content))
	})

	It("caps findings at five and sources at three", func() {
		var lines []string
		for range 8 {
			lines = append(lines, "according to a study, revenue rose 10 percent")
		}

		bundle := research.Parse(strings.Join(lines, "\n"), "t")

		Expect(bundle.Findings).To(HaveLen(5))
		Expect(bundle.Sources).To(HaveLen(3))
	})

	It("falls back to medium length sentences when nothing matches", func() {
		content := "Short one. This sentence is long enough to be kept as a finding. " +
			"Another reasonably sized sentence lives here. " + strings.Repeat("x", 250) + "."

		bundle := research.Parse(content, "t")

		Expect(bundle.Findings).To(Equal([]string{
			"This sentence is long enough to be kept as a finding.",
			"Another reasonably sized sentence lives here.",
		}))
		Expect(bundle.Sources).To(BeEmpty())
	})
})

var _ = Describe("ExtractTopics", func() {
	It("keeps numbered and bulleted entries longer than ten characters", func() {
		content := strings.Join([]string{
			"Here are some trends:",
			"1. AI regulation in Europe",
			"2) Short",
			"- **Quantum computing startups**",
			"• Climate tech funding rounds",
			"plain line that is not a list item",
		}, "\n")

		Expect(research.ExtractTopics(content)).To(Equal([]string{
			"AI regulation in Europe",
			"Quantum computing startups",
			"Climate tech funding rounds",
		}))
	})

	It("returns at most ten topics", func() {
		var lines []string
		for range 15 {
			lines = append(lines, "- a sufficiently long topic")
		}
		Expect(research.ExtractTopics(strings.Join(lines, "\n"))).To(HaveLen(10))
	})
})
