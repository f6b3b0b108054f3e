package unused

import (
	"sort"
	"sync"
)

// candidateSet is the only state shared between scan workers. subtract is
// its single mutation point.
type candidateSet struct {
	mu    sync.Mutex
	items map[string]Candidate
}

func newCandidateSet(cs []Candidate) *candidateSet {
	items := make(map[string]Candidate, len(cs))
	for _, c := range cs {
		items[c.Name] = c
	}
	return &candidateSet{items: items}
}

func (s *candidateSet) snapshot() []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Candidate, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	return out
}

func (s *candidateSet) subtract(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		delete(s.items, name)
	}
}

func (s *candidateSet) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *candidateSet) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.items))
	for name := range s.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
