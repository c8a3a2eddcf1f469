package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/services"
)

// MementoStore is a sorted in-memory instant index per resource, the
// simplification the ambient stack's registry accessor makes for "read/write
// with timestamp" — here holding a full snapshot per instant rather than one
// current value.
type MementoStore struct {
	mu        sync.RWMutex
	instants  map[string][]time.Time
	snapshots map[string]map[int64]model.Resource
}

// NewMementoStore returns an empty MementoStore.
func NewMementoStore() *MementoStore {
	return &MementoStore{
		instants:  make(map[string][]time.Time),
		snapshots: make(map[string]map[int64]model.Resource),
	}
}

var _ services.MementoService = (*MementoStore)(nil)

// Put implements services.MementoService.
func (s *MementoStore) Put(ctx context.Context, iri string, resource model.Resource, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	at = at.UTC()
	times := s.instants[iri]
	idx := sort.Search(len(times), func(i int) bool { return !times[i].Before(at) })
	if idx == len(times) || !times[idx].Equal(at) {
		times = append(times, time.Time{})
		copy(times[idx+1:], times[idx:])
		times[idx] = at
		s.instants[iri] = times
	}
	if s.snapshots[iri] == nil {
		s.snapshots[iri] = make(map[int64]model.Resource)
	}
	s.snapshots[iri][at.Unix()] = resource
	return nil
}

// Mementos implements services.MementoService: every recorded instant for
// iri, ascending.
func (s *MementoStore) Mementos(ctx context.Context, iri string) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	times := s.instants[iri]
	out := make([]time.Time, len(times))
	copy(out, times)
	return out, nil
}

// Get implements services.MementoService: the Memento nearest to, but not
// after, instant.
func (s *MementoStore) Get(ctx context.Context, iri string, instant time.Time) (model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	times := s.instants[iri]
	instant = instant.UTC()
	idx := sort.Search(len(times), func(i int) bool { return times[i].After(instant) })
	if idx == 0 {
		return model.Resource{Metadata: model.Metadata{InternalIRI: iri, State: model.Missing}}, nil
	}
	chosen := times[idx-1]
	return s.snapshots[iri][chosen.Unix()], nil
}
