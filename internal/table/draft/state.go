// Package draft selects the single column of a table that hosts the draft
// indicator.
package draft

import "sync"

// State is the per-table draft indicator slot. An assignment is sticky for
// the lifetime of the state path; Rebind starts a new generation.
type State struct {
	mu         sync.RWMutex
	path       string
	generation uint64
	column     string
	assigned   bool
}

// NewState creates an unset state bound to the given internal state path
func NewState(path string) *State {
	return &State{path: path, generation: 1}
}

// Path returns the internal state path the state is bound to
func (s *State) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Generation returns the current generation
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Assignment returns the assigned column, if any
func (s *State) Assignment() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.column, s.assigned
}

// Rebind binds the state to a new path and resets the assignment.
func (s *State) Rebind(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.generation++
	s.column = ""
	s.assigned = false
}

// assign records name unless the current generation is already assigned.
// It returns the column holding the assignment afterwards.
func (s *State) assign(generation uint64, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assigned || s.generation != generation {
		return s.column, s.assigned
	}
	s.column = name
	s.assigned = true
	return name, true
}
