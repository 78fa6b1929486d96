// Package selector implements the note-selection pipeline: it decides
// which vault notes qualify for summarization given a time window and
// target tag, and produces them as a deterministic ordered batch.
package selector

import (
	"log"
	"sort"

	"github.com/ryosukesatoh/vault-digest/internal/vault"
	"github.com/ryosukesatoh/vault-digest/internal/window"
)

// Pipeline composes the vault scanner with the tag and window filters.
type Pipeline struct {
	scanner *vault.Scanner
	tag     string
}

func New(scanner *vault.Scanner, targetTag string) *Pipeline {
	return &Pipeline{scanner: scanner, tag: targetTag}
}

// Select returns the notes under root that were modified inside w and
// carry the target tag, sorted ascending by (modified, path).
//
// The window check runs on file metadata before any content is read.
// Files that fail to read are skipped with a warning; an empty result
// is a normal outcome, not an error. Only an unreadable vault root
// fails the whole run.
func (p *Pipeline) Select(root string, w window.Window) ([]vault.Note, error) {
	files, err := p.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	var selected []vault.Note
	for _, f := range files {
		if !w.Contains(f.Modified) {
			continue
		}

		note, err := vault.ReadNote(f)
		if err != nil {
			log.Printf("WARNING: %v", err)
			continue
		}

		fm, body := vault.ParseFrontmatter(note.Raw)
		note.Tags = fm.Tags

		switch {
		case fm.HasTag(p.tag):
			// Frontmatter tag marks the whole note.
			note.Excerpt = vault.StripTags(body)
		case vault.MatchesTag(body, p.tag):
			// Inline tag: only the tagged list blocks are summarized.
			note.Excerpt = vault.StripTags(vault.ExtractTaggedBlocks(body, p.tag))
		default:
			continue
		}

		if note.Excerpt == "" {
			continue
		}
		selected = append(selected, note)
	}

	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].Modified.Equal(selected[j].Modified) {
			return selected[i].Modified.Before(selected[j].Modified)
		}
		return selected[i].Path < selected[j].Path
	})

	return selected, nil
}
