package repository

import "context"

// BlobStore keeps the original uploaded files.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	// Download returns the bytes and the content type recorded at upload,
	// or nil, "", nil when nothing is stored at path.
	Download(ctx context.Context, path string) ([]byte, string, error)
	// Delete removes path; deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
