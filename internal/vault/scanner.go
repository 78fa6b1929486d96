package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrVaultUnreadable is returned when the vault root does not exist or
// cannot be accessed. Fatal for the run: no notes, no digest.
var ErrVaultUnreadable = errors.New("vault: root is missing or unreadable")

// FileInfo is a candidate note file found by a scan: path plus the
// metadata needed for the window check, before the content is read.
type FileInfo struct {
	Path     string
	RelPath  string
	Modified time.Time
}

// Scanner walks a vault directory tree for note files. Each Scan
// re-walks the tree; nothing is cached across runs.
type Scanner struct {
	Extension string // note file extension including the dot, e.g. ".md"
}

func NewScanner(extension string) *Scanner {
	if extension == "" {
		extension = ".md"
	}
	return &Scanner{Extension: extension}
}

// Scan returns every regular file under root with the scanner's
// extension, with its mtime. Directories and other files are skipped
// silently; subtrees that error mid-walk are skipped with a warning.
// A missing or unreadable root returns ErrVaultUnreadable.
func (s *Scanner) Scan(root string) ([]FileInfo, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrVaultUnreadable, root)
	}

	var files []FileInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %s", ErrVaultUnreadable, root)
			}
			log.Printf("WARNING: skipping unreadable entry %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), s.Extension) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			log.Printf("WARNING: skipping %s: %v", path, err)
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = d.Name()
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Modified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ReadNote reads a candidate's content and builds the Note. Read
// failures are the caller's decision: the pipeline skips the file and
// keeps going.
func ReadNote(f FileInfo) (Note, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Note{}, fmt.Errorf("vault: read %s: %w", f.Path, err)
	}
	return Note{
		Path:     f.Path,
		RelPath:  f.RelPath,
		Title:    TitleFromPath(f.Path),
		Raw:      string(data),
		Modified: f.Modified,
	}, nil
}
