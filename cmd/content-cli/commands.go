package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/domain/entity"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		platforms  []string
		provider   string
		noResearch bool
		context    string
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate post suggestions for one or more platforms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cfg, err := opts.newService(ctx)
			if err != nil {
				return err
			}

			parsed, err := parsePlatforms(platforms)
			if err != nil {
				return err
			}
			p, err := resolveProvider(provider, cfg.LLM.DefaultProvider)
			if err != nil {
				return err
			}

			results, research, err := svc.Generate(ctx, generation.GenerateInput{
				Topic:             args[0],
				Platforms:         parsed,
				Provider:          p,
				IncludeResearch:   !noResearch,
				AdditionalContext: context,
				Credential:        os.Getenv("PROVIDER_KEY"),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, generateView(results, research))
			}
			return writeResults(out, results, research)
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platform", "p", []string{"twitter"}, "target platforms (twitter, linkedin)")
	cmd.Flags().StringVar(&provider, "provider", "", "preferred llm provider")
	cmd.Flags().BoolVar(&noResearch, "no-research", false, "skip topic research")
	cmd.Flags().StringVar(&context, "context", "", "additional context for the prompt")
	return cmd
}

func newVariationsCmd(opts *rootOptions) *cobra.Command {
	var (
		platform string
		provider string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "variations <content>",
		Short: "Rewrite existing content into alternative versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cfg, err := opts.newService(ctx)
			if err != nil {
				return err
			}

			pl, err := entity.ParsePlatform(platform)
			if err != nil {
				return err
			}
			p, err := resolveProvider(provider, cfg.LLM.DefaultProvider)
			if err != nil {
				return err
			}

			variations, used, err := svc.Variations(ctx, generation.VariationInput{
				Content:    args[0],
				Platform:   pl,
				Provider:   p,
				Count:      count,
				Credential: os.Getenv("PROVIDER_KEY"),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, map[string]any{"provider": used, "variations": variations})
			}
			return writeVariations(out, used, variations)
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "twitter", "target platform")
	cmd.Flags().StringVar(&provider, "provider", "", "preferred llm provider")
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of variations (max 5)")
	return cmd
}

func newProvidersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List llm providers and whether they are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := opts.newService(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), svc.Providers())
			}
			return writeProviders(cmd.OutOrStdout(), svc.Providers())
		},
	}
}

func parsePlatforms(values []string) ([]entity.Platform, error) {
	out := make([]entity.Platform, 0, len(values))
	for _, v := range values {
		p, err := entity.ParsePlatform(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func resolveProvider(flag, fallback string) (entity.Provider, error) {
	if flag == "" {
		flag = fallback
	}
	if flag == "" {
		return entity.ProviderClaude, nil
	}
	p, err := entity.ParseProvider(flag)
	if err != nil {
		return "", fmt.Errorf("--provider: %w", err)
	}
	return p, nil
}
