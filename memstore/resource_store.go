// Package memstore provides reference implementations of the services
// collaborator interfaces: in-memory stores for tests and local development,
// plus alternate backends (Postgres, S3, Kafka) wired the way the ambient
// stack wires its own storage, binary, and messaging concerns.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/services"
)

// ResourceStore is a mutex-guarded in-memory ResourceService, keyed by
// internal IRI, mirroring the ambient stack's own map-backed registry
// accessor shape but holding full resources rather than opaque JSON blobs.
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[string]model.Resource
}

// NewResourceStore returns an empty ResourceStore.
func NewResourceStore() *ResourceStore {
	return &ResourceStore{resources: make(map[string]model.Resource)}
}

var _ services.ResourceService = (*ResourceStore)(nil)

// Get implements services.ResourceService.
func (s *ResourceStore) Get(ctx context.Context, iri string) (model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[iri]
	if !ok {
		return model.Resource{Metadata: model.Metadata{InternalIRI: iri, State: model.Missing}}, nil
	}
	return r, nil
}

// Create implements services.ResourceService.
func (s *ResourceStore) Create(ctx context.Context, meta model.Metadata, dataset model.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta.State = model.Live
	s.resources[meta.InternalIRI] = model.Resource{Metadata: meta, Dataset: dataset}
	return nil
}

// Replace implements services.ResourceService.
func (s *ResourceStore) Replace(ctx context.Context, meta model.Metadata, dataset model.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta.State = model.Live
	s.resources[meta.InternalIRI] = model.Resource{Metadata: meta, Dataset: dataset}
	return nil
}

// Delete implements services.ResourceService.
func (s *ResourceStore) Delete(ctx context.Context, iri string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[iri]
	if !ok {
		return fmt.Errorf("memstore: cannot delete unknown resource %s", iri)
	}
	r.Metadata.State = model.Deleted
	r.Metadata.LastModified = when
	s.resources[iri] = r
	return nil
}

// Add implements services.ResourceService.
func (s *ResourceStore) Add(ctx context.Context, iri string, graph model.Graph, triples []model.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[iri]
	if !ok {
		return fmt.Errorf("memstore: cannot add to unknown resource %s", iri)
	}
	if r.Dataset == nil {
		r.Dataset = model.NewDataset()
	}
	r.Dataset[graph] = append(r.Dataset[graph], triples...)
	s.resources[iri] = r
	return nil
}

// Touch implements services.ResourceService.
func (s *ResourceStore) Touch(ctx context.Context, iri string, when time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[iri]
	if !ok {
		return fmt.Errorf("memstore: cannot touch unknown resource %s", iri)
	}
	r.Metadata.LastModified = when
	s.resources[iri] = r
	return nil
}

// GenerateIdentifier implements services.ResourceService.
func (s *ResourceStore) GenerateIdentifier() string {
	return uuid.NewString()
}

// SupportedInteractionModels implements services.ResourceService.
func (s *ResourceStore) SupportedInteractionModels() []model.InteractionModel {
	return []model.InteractionModel{
		model.Resource, model.RDFSource, model.NonRDFSource,
		model.Container, model.BasicContainer, model.DirectContainer, model.IndirectContainer,
	}
}
