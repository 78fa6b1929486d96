package vault

import (
	"path/filepath"
	"strings"
	"time"
)

// Note is a markdown note selected from the vault. Identity is the
// absolute file path. Notes live for a single run and are never
// mutated.
type Note struct {
	Path     string    // absolute path, unique within a run
	RelPath  string    // path relative to the vault root, for display
	Title    string    // filename without extension
	Raw      string    // full file content as read from disk
	Excerpt  string    // the content handed to the summarizer
	Modified time.Time // file mtime
	Tags     []string  // frontmatter tags, if any
}

// TitleFromPath derives a note title from its filename.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
