package publisher

import (
	"context"

	"github.com/ryosukesatoh/vault-digest/internal/report"
)

// Publisher delivers a digest to some output destination.
type Publisher interface {
	Publish(ctx context.Context, digest *report.Digest) error
}
