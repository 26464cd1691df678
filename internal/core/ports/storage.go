// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
)

// FileStorage stores receipts and uploaded import files.
type FileStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
