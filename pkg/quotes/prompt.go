package quotes

import (
	"fmt"
	"math"
	"strings"

	"tinigom/models"
)

// CleanQuote strips the quote characters models like to wrap their answer
// in, plus surrounding whitespace.
func CleanQuote(text string) string {
	text = strings.ReplaceAll(text, `"`, "")
	text = strings.ReplaceAll(text, "'", "")
	return strings.TrimSpace(text)
}

// SharedPrompt builds the generation request for the shared single-quote
// strategy, addressed to the current turn user with the overall goal
// progress as context.
func SharedPrompt(user string, progressPct float64) string {
	var b strings.Builder
	writeHeader(&b, user, progressPct)
	b.WriteString("Return ONLY the quote, nothing else.\n")
	return b.String()
}

// DualPrompt builds the generation request for one user's independent
// quote, embedding their contribution percentage and the recent quotes the
// model must not repeat.
func DualPrompt(user string, contributionPct float64, avoid []string) string {
	var b strings.Builder
	writeHeader(&b, user, contributionPct)
	if len(avoid) > 0 {
		b.WriteString("Do NOT repeat any of these recent quotes:\n")
		for _, q := range avoid {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	b.WriteString("Return ONLY the quote, nothing else.\n")
	return b.String()
}

func writeHeader(b *strings.Builder, user string, pct float64) {
	fmt.Fprintf(b, "Generate a deeply meaningful and motivational savings quote for %s that addresses both financial and mental wellness.\n\n", user)
	fmt.Fprintf(b, "Context:\n- They are %.1f%% toward their savings goal\n\n", pct)
	b.WriteString("Requirements:\n")
	b.WriteString("- Maximum 12-15 words for meaningful impact\n")
	fmt.Fprintf(b, "- Include \"%s\" naturally in the quote\n", user)
	if user == models.UserKate {
		b.WriteString("- Gen Z girly tone but with depth and meaning\n")
		b.WriteString("- Include themes like: think twice before buying, do you really need that, mindful spending, mental health benefits of saving, self-care through saving\n")
		b.WriteString("- Mix Gen Z slang with meaningful advice\n")
	} else {
		b.WriteString("- Mature, wise, motivational tone\n")
		b.WriteString("- Include themes like: think twice before buying, do you really need that, mindful spending, mental health benefits of saving, delayed gratification, financial peace\n")
		b.WriteString("- Make it meaningful and thoughtful, not just about money\n")
	}
	fmt.Fprintf(b, "- Reference their %d%% progress or give practical wisdom\n", int(math.Round(pct)))
}
