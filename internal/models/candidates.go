package models

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Candidate is one possible match offered during disambiguation.
type Candidate struct {
	ID   int64
	Name string
	URL  string
}

// String renders the candidate as shown in selection lists.
func (c Candidate) String() string {
	if c.URL == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.URL)
}

// CandidateSet is an ordered list of candidates with no two sharing an ID.
//
// The first occurrence of an ID wins; later rows with the same ID are dropped even when their
// name or URL differ.
type CandidateSet struct {
	items []Candidate
	seen  sets.Set[int64]
}

// NewCandidateSet builds a set from candidates, keeping first occurrences.
func NewCandidateSet(candidates ...Candidate) *CandidateSet {
	s := &CandidateSet{seen: sets.New[int64]()}
	s.Add(candidates...)
	return s
}

// Add appends candidates whose IDs are not yet present and reports how many were added.
func (s *CandidateSet) Add(candidates ...Candidate) int {
	if s.seen == nil {
		s.seen = sets.New[int64]()
	}

	added := 0
	for _, c := range candidates {
		if s.seen.Has(c.ID) {
			continue
		}
		s.seen.Insert(c.ID)
		s.items = append(s.items, c)
		added++
	}
	return added
}

// Has reports whether a candidate with id is present.
func (s *CandidateSet) Has(id int64) bool {
	return s != nil && s.seen.Has(id)
}

// Len returns the number of candidates.
func (s *CandidateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the candidates in insertion order.
func (s *CandidateSet) Items() []Candidate {
	if s == nil {
		return nil
	}
	out := make([]Candidate, len(s.items))
	copy(out, s.items)
	return out
}

// At returns the candidate at index i.
func (s *CandidateSet) At(i int) Candidate {
	return s.items[i]
}
