// Package gcs wraps Google Cloud Storage as a JSON document store. It is
// thin plumbing: put, get, delete, nothing clever.
package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
)

// DocumentStore stores JSON documents as objects in a bucket.
type DocumentStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewDocumentStore creates a DocumentStore using Application Default
// Credentials.
func NewDocumentStore(ctx context.Context, bucket, prefix string) (*DocumentStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &DocumentStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *DocumentStore) object(id string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + id)
}

// Put marshals doc and writes it under id, replacing any existing object.
func (s *DocumentStore) Put(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	w := s.object(id).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize document write: %w", err)
	}
	return nil
}

// Get reads the document under id into out. A missing object maps to
// ErrDocumentNotFound.
func (s *DocumentStore) Get(ctx context.Context, id string, out any) error {
	r, err := s.object(id).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domainErrors.ErrDocumentNotFound
		}
		return fmt.Errorf("read document: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read document bytes: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// Delete removes the document under id. Deleting a missing document maps
// to ErrDocumentNotFound.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	if err := s.object(id).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return domainErrors.ErrDocumentNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *DocumentStore) Close() error {
	return s.client.Close()
}
