package service

import (
	"context"
	"io"
)

// AvatarStorage is the external object-storage collaborator for profile
// images. Upload returns the public URL of the stored object.
type AvatarStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
