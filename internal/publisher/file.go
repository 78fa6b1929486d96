package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryosukesatoh/vault-digest/internal/report"
)

// FilePublisher writes the digest to a directory on disk. The runner
// uses it as the fallback when every configured publisher fails, so a
// generated digest is never lost; it also works as a regular publisher.
type FilePublisher struct {
	dir string
}

func NewFilePublisher(dir string) *FilePublisher {
	return &FilePublisher{dir: dir}
}

func (p *FilePublisher) Publish(_ context.Context, digest *report.Digest) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("file: create %s: %w", p.dir, err)
	}

	name := fmt.Sprintf("digest_%s.txt", digest.GeneratedAt.Format("2006-01-02_150405"))
	path := filepath.Join(p.dir, name)

	content := digest.Subject + "\n\n" + digest.Body()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("file: write %s: %w", path, err)
	}

	return nil
}
