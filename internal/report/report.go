// Package report assembles per-request summaries into the final digest
// handed to the publishers.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/window"
)

// SummaryResult pairs one request's summary text with the notes it
// came from, in selection order.
type SummaryResult struct {
	NotePaths  []string
	NoteTitles []string
	Summary    string
	Truncated  bool
}

// Metadata describes the run that produced the digest.
type Metadata struct {
	GeneratedAt time.Time
	Window      window.Window
	NoteCount   int
}

// Digest is the final artifact: subject line, run metadata, and the
// ordered summaries.
type Digest struct {
	Subject     string
	GeneratedAt time.Time
	Window      window.Window
	NoteCount   int
	Results     []SummaryResult
}

// Assemble builds the digest. Output is deterministic for identical
// inputs: ordering follows the results slice, which follows selection
// order.
func Assemble(results []SummaryResult, meta Metadata) *Digest {
	return &Digest{
		Subject:     subject(meta.Window),
		GeneratedAt: meta.GeneratedAt,
		Window:      meta.Window,
		NoteCount:   meta.NoteCount,
		Results:     results,
	}
}

func subject(w window.Window) string {
	if w.SameDay() {
		return fmt.Sprintf("Vault digest %s", w.End.Format("2006-01-02"))
	}
	return fmt.Sprintf("Vault digest %s to %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// Body renders the plain-text digest body: each summary grouped under
// its source note titles.
func (d *Digest) Body() string {
	var sb strings.Builder

	if d.Window.SameDay() {
		sb.WriteString("Notes summarized for today:\n\n")
	} else {
		fmt.Fprintf(&sb, "Notes summarized for %s to %s:\n\n",
			d.Window.Start.Format("2006-01-02"), d.Window.End.Format("2006-01-02"))
	}

	if len(d.Results) == 0 {
		sb.WriteString("No tagged notes were updated in this period.\n")
		return sb.String()
	}

	for i, r := range d.Results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n", strings.Join(r.NoteTitles, ", "))
		if r.Truncated {
			sb.WriteString("(note content was truncated to fit the summarization budget)\n")
		}
		sb.WriteString(r.Summary)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Empty reports whether the digest carries no summaries.
func (d *Digest) Empty() bool {
	return len(d.Results) == 0
}
