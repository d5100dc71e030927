package config

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func writeConfig(dir, name, body string) {
	Expect(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600)).To(Succeed())
}

var _ = Describe("LoadFrom", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		GinkgoT().Setenv("APP_ENV", "test")
	})

	It("expands env placeholders and applies defaults", func() {
		GinkgoT().Setenv("SOCIAL_TEST_GEMINI_1", "g-key-1")
		writeConfig(dir, "config.yaml", `
llm:
  default_provider: gemini
  providers:
    gemini:
      api_keys:
        - "${SOCIAL_TEST_GEMINI_1:}"
        - "${SOCIAL_TEST_GEMINI_2:}"
    claude:
      api_key: "${SOCIAL_TEST_MISSING:fallback-key}"
`)
		cfg, err := LoadFrom(dir)
		Expect(err).NotTo(HaveOccurred())

		gemini, ok := cfg.LLM.Provider("Gemini")
		Expect(ok).To(BeTrue())
		Expect(gemini.Keys()).To(Equal([]string{"g-key-1"}))

		claude, _ := cfg.LLM.Provider("claude")
		Expect(claude.APIKey).To(Equal("fallback-key"))

		Expect(cfg.Server.HTTP.Port).To(Equal(8000))
		Expect(cfg.Research.CacheTTL).To(Equal(time.Hour))
		Expect(cfg.Messaging.RedisStream.RetryBackoff.Multiplier).To(Equal(2.0))
		Expect(cfg.LLM.KeyRotation.Backend).To(Equal("memory"))
	})

	It("overlays the environment specific file", func() {
		writeConfig(dir, "config.yaml", "llm:\n  default_provider: claude\n")
		writeConfig(dir, "config.test.yaml", "llm:\n  default_provider: xai\n")

		cfg, err := LoadFrom(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.LLM.DefaultProvider).To(Equal("xai"))
	})

	DescribeTable("rejects invalid settings",
		func(body string) {
			writeConfig(dir, "config.yaml", body)
			_, err := LoadFrom(dir)
			Expect(err).To(HaveOccurred())
		},
		Entry("unknown default provider", "llm:\n  default_provider: llama\n"),
		Entry("unknown rotation backend", "llm:\n  key_rotation:\n    backend: etcd\n"),
		Entry("redis rotation without redis", "llm:\n  key_rotation:\n    backend: redis\n"),
	)

	It("fails without the base file", func() {
		_, err := LoadFrom(dir)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ProviderConfig.Keys", func() {
	It("merges the single key with the pool and drops blanks and duplicates", func() {
		p := ProviderConfig{APIKey: "a", APIKeys: []string{" b ", "", "a", "c"}}
		Expect(p.Keys()).To(Equal([]string{"a", "b", "c"}))
	})
})
