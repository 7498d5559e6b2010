package services

import (
	"sync"

	"github.com/google/uuid"
)

// subjectLocks serializes check-and-effect sequences per subject. Different
// subjects never contend. Entries are tiny and bounded by the active subject
// population, so nothing is evicted.
type subjectLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newSubjectLocks() *subjectLocks {
	return &subjectLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (s *subjectLocks) lock(subjectID uuid.UUID) func() {
	s.mu.Lock()
	m, ok := s.locks[subjectID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[subjectID] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}
