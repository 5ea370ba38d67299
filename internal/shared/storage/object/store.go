package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for persisting derived artifacts by key.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
