package chunk

import "sync"

// Set tracks chunk paths already merged into the factory table.
type Set struct {
	paths map[string]struct{}
	mu    sync.RWMutex
}

// NewSet creates an empty loaded-chunk set.
func NewSet() *Set {
	return &Set{paths: make(map[string]struct{})}
}

// Has reports whether chunkPath was loaded.
func (s *Set) Has(chunkPath string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.paths[chunkPath]
	return ok
}

// Add marks chunkPath as loaded. It reports false if it already was.
func (s *Set) Add(chunkPath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paths[chunkPath]; ok {
		return false
	}
	s.paths[chunkPath] = struct{}{}
	return true
}

// Len returns the number of loaded chunks.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.paths)
}
