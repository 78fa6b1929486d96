// Package request turns an ordered note selection into summarization
// requests that respect a per-request token budget.
package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ryosukesatoh/vault-digest/internal/vault"
)

// Request is one unit of work for the summarizer: concatenated note
// content plus the paths that contributed to it, so summaries can be
// traced back when the report is assembled.
type Request struct {
	NotePaths       []string
	NoteTitles      []string
	Prompt          string
	EstimatedTokens int
	Truncated       bool // content was cut to fit the budget
}

// Token estimation is a byte-length proxy; exact tokenization belongs
// to the API. Two bytes per token is deliberately pessimistic so CJK
// heavy notes never overrun the real limit.
const bytesPerToken = 2

const sectionSeparator = "\n\n---\n\n"

func estimateTokens(s string) int {
	return (len(s) + bytesPerToken - 1) / bytesPerToken
}

// section frames one note's excerpt with its title, the framing the
// summarizer prompt explains to the model.
func section(n vault.Note) string {
	return fmt.Sprintf("【%s】\n%s", n.Title, n.Excerpt)
}

// Build packs notes, in the order given, into as few requests as fit
// under maxTokens each. A single note that alone exceeds the budget is
// emitted as its own truncated request — never dropped. maxTokens <= 0
// disables packing and produces one request.
//
// The union of note paths across the returned requests always equals
// the input's paths exactly.
func Build(notes []vault.Note, maxTokens int) []Request {
	if len(notes) == 0 {
		return nil
	}

	var reqs []Request
	var cur Request
	var parts []string

	flush := func() {
		if len(parts) == 0 {
			return
		}
		cur.Prompt = strings.Join(parts, sectionSeparator)
		cur.EstimatedTokens = estimateTokens(cur.Prompt)
		reqs = append(reqs, cur)
		cur = Request{}
		parts = nil
	}

	for _, n := range notes {
		sec := section(n)
		secTokens := estimateTokens(sec)

		if maxTokens > 0 && secTokens > maxTokens {
			// Oversized note: its own request, cut to the budget.
			flush()
			reqs = append(reqs, Request{
				NotePaths:       []string{n.Path},
				NoteTitles:      []string{n.Title},
				Prompt:          truncateRunes(sec, maxTokens*bytesPerToken),
				EstimatedTokens: maxTokens,
				Truncated:       true,
			})
			continue
		}

		if maxTokens > 0 && len(parts) > 0 {
			joined := estimateTokens(strings.Join(append(parts, sec), sectionSeparator))
			if joined > maxTokens {
				flush()
			}
		}

		cur.NotePaths = append(cur.NotePaths, n.Path)
		cur.NoteTitles = append(cur.NoteTitles, n.Title)
		parts = append(parts, sec)
	}
	flush()

	return reqs
}

// truncateRunes cuts s to at most max bytes without splitting a rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
