package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"om-api/internal/domain/repository"

	"github.com/dgraph-io/badger/v4"
)

const (
	dataPrefix        = "blob:"
	contentTypePrefix = "content-type:"
)

// BlobStore keeps uploaded files in a Badger key-value store keyed by path.
type BlobStore struct {
	db *badger.DB
}

var _ repository.BlobStore = (*BlobStore)(nil)

// Open opens (or creates) a store under dir. An empty dir keeps everything in memory.
func Open(dir string) (*BlobStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	return &BlobStore{db: db}, nil
}

func (s *BlobStore) Close() error {
	return s.db.Close()
}

func (s *BlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return errors.New("blob path is empty")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataPrefix+path), data); err != nil {
			return err
		}
		return txn.Set([]byte(contentTypePrefix+path), []byte(contentType))
	})
}

func (s *BlobStore) Download(ctx context.Context, path string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var (
		data        []byte
		contentType string
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dataPrefix + path))
		if err != nil {
			return err
		}
		if data, err = item.ValueCopy(nil); err != nil {
			return err
		}

		item, err = txn.Get([]byte(contentTypePrefix + path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			contentType = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read blob %s: %w", path, err)
	}
	return data, contentType, nil
}

func (s *BlobStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(dataPrefix + path)); err != nil {
			return err
		}
		return txn.Delete([]byte(contentTypePrefix + path))
	})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}
