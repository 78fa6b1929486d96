package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryosukesatoh/vault-digest/internal/report"
)

// StdoutPublisher prints the digest to stdout.
type StdoutPublisher struct{}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (p *StdoutPublisher) Publish(_ context.Context, digest *report.Digest) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println(digest.Subject)
	fmt.Printf("Generated: %s\n", digest.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Window: %s to %s\n",
		digest.Window.Start.Format("2006-01-02 15:04"),
		digest.Window.End.Format("2006-01-02 15:04"))
	fmt.Printf("Notes: %d\n", digest.NoteCount)
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println(digest.Body())
	fmt.Println(strings.Repeat("=", 72))
	return nil
}
