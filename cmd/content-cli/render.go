package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/interfaces/http/dto"
)

func generateView(results []entity.PlatformResult, research *entity.ResearchBundle) *dto.GenerateResponse {
	return dto.ToGenerateResponse(results, research)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResults(w io.Writer, results []entity.PlatformResult, research *entity.ResearchBundle) error {
	var b strings.Builder
	if research != nil && len(research.Findings) > 0 {
		b.WriteString("Research:\n")
		for _, f := range research.Findings {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
		b.WriteString("\n")
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "[%s] error: %v\n\n", r.Platform, r.Err)
			continue
		}
		fmt.Fprintf(&b, "[%s] via %s\n", r.Platform, r.Content.Provider)
		for i, s := range r.Content.Suggestions {
			fmt.Fprintf(&b, "%d. (%d chars) %s\n", i+1, s.CharacterCount, s.Content)
			if len(s.Hashtags) > 0 {
				fmt.Fprintf(&b, "   %s\n", strings.Join(s.Hashtags, " "))
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeVariations(w io.Writer, provider entity.Provider, variations []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "via %s\n", provider)
	for i, v := range variations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, v)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeProviders(w io.Writer, infos []entity.ProviderInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tMODEL\tAVAILABLE\tNAME")
	for _, info := range infos {
		model := info.Model
		if model == "" {
			model = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", info.Provider, model, info.Available, info.Name)
	}
	return tw.Flush()
}
