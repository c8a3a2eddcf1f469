package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/ldpworks/ldprepo/services"
)

// BinaryStore is an in-memory byte-slice store implementing range reads,
// the local-development stand-in for the S3-backed BinaryService below.
type BinaryStore struct {
	mu      sync.RWMutex
	content map[string][]byte
	mime    map[string]string
}

// NewBinaryStore returns an empty BinaryStore.
func NewBinaryStore() *BinaryStore {
	return &BinaryStore{content: make(map[string][]byte), mime: make(map[string]string)}
}

var _ services.BinaryService = (*BinaryStore)(nil)

// Get implements services.BinaryService.
func (s *BinaryStore) Get(ctx context.Context, iri string) (services.Binary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.content[iri]
	if !ok {
		return services.Binary{}, fmt.Errorf("memstore: no binary content for %s", iri)
	}
	return services.Binary{MIMEType: s.mime[iri], Size: int64(len(data))}, nil
}

// GetContent implements services.BinaryService.
func (s *BinaryStore) GetContent(ctx context.Context, iri string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.content[iri]
	if !ok {
		return nil, fmt.Errorf("memstore: no binary content for %s", iri)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// GetRange implements services.BinaryService.
func (s *BinaryStore) GetRange(ctx context.Context, iri string, start, end int64) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.content[iri]
	if !ok {
		return nil, fmt.Errorf("memstore: no binary content for %s", iri)
	}
	if start < 0 {
		start = 0
	}
	if end >= int64(len(data)) {
		end = int64(len(data)) - 1
	}
	if start > end {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return io.NopCloser(bytes.NewReader(data[start : end+1])), nil
}

// SetContent implements services.BinaryService.
func (s *BinaryStore) SetContent(ctx context.Context, iri string, mimeType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[iri] = data
	s.mime[iri] = mimeType
	return int64(len(data)), nil
}

// PurgeContent implements services.BinaryService.
func (s *BinaryStore) PurgeContent(ctx context.Context, iri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, iri)
	delete(s.mime, iri)
	return nil
}

// GenerateIdentifier implements services.BinaryService.
func (s *BinaryStore) GenerateIdentifier() string {
	return uuid.NewString()
}
