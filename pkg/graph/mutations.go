package graph

import (
	"fmt"
	"strings"
)

// AddRelationship inserts the directed edge entity1 -> entity2 labeled relationship,
// creating both entities if needed. Inputs are trimmed; an empty input returns a
// ValidationError and leaves the graph untouched.
//
// An existing edge between the same ordered pair is replaced. When its label
// differs, the old label's counter is decremented first. Re-adding the same label
// increments its counter again, so counts track insertions rather than distinct edges.
func (s *Store) AddRelationship(entity1, relationship, entity2 string) (MutationResult, error) {
	entity1 = strings.TrimSpace(entity1)
	relationship = strings.TrimSpace(relationship)
	entity2 = strings.TrimSpace(entity2)

	if entity1 == "" || relationship == "" || entity2 == "" {
		return MutationResult{}, &ValidationError{
			Message: "All fields (Entity 1, Relationship, Entity 2) are required",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.setEdge(entity1, entity2, relationship)

	return MutationResult{
		Status:     StatusSuccess,
		Message:    fmt.Sprintf("Relationship added: %s --[%s]--> %s", entity1, relationship, entity2),
		GraphStats: s.statsLocked(),
	}, nil
}

// setEdge is the raw write (caller holds the write lock and has validated input).
func (s *Store) setEdge(src, dst, label string) {
	source := s.ensureEntity(src)
	target := s.ensureEntity(dst)

	previous, replaced := source.out.Set(dst, label)
	target.in.Set(src, label)

	if !replaced {
		s.edgeCount++
	} else if previous != label {
		s.decLabel(previous)
	}
	s.incLabel(label)
}

// AddRelationshipsBatch applies AddRelationship to every triple in order.
// Failed rows are collected with their 1-based index and never abort the batch.
func (s *Store) AddRelationshipsBatch(triples []Triple) BatchResult {
	res := BatchResult{
		TotalCount: len(triples),
		Errors:     []RowError{},
	}

	for i, t := range triples {
		if _, err := s.AddRelationship(t.Entity1, t.Relationship, t.Entity2); err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		res.AddedCount++
	}

	res.Status = StatusSuccess
	if !res.Success() {
		res.Status = "error"
	}
	res.GraphStats = s.Stats()
	return res
}

// RemoveRelationship deletes the edge entity1 -> entity2. Matching is exact and
// case-sensitive, unlike the query methods. Entities left without edges stay in the graph.
func (s *Store) RemoveRelationship(entity1, entity2 string) (MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.nodes.Get(entity1)
	if !ok {
		return MutationResult{}, noEdge(entity1, entity2)
	}
	label, ok := source.out.Delete(entity2)
	if !ok {
		return MutationResult{}, noEdge(entity1, entity2)
	}
	if target, ok := s.nodes.Get(entity2); ok {
		target.in.Delete(entity1)
	}

	s.edgeCount--
	s.decLabel(label)

	return MutationResult{
		Status:     StatusSuccess,
		Message:    fmt.Sprintf("Relationship removed: %s --[%s]--> %s", entity1, label, entity2),
		GraphStats: s.statsLocked(),
	}, nil
}

func noEdge(entity1, entity2 string) error {
	return &NotFoundError{
		Message: fmt.Sprintf("No relationship found between %s and %s", entity1, entity2),
	}
}

// Clear removes every entity, relationship and counter.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = btreeNodes{}
	s.folded = make(map[string]string)
	s.relationshipTypes = make(map[string]int)
	s.edgeCount = 0
}
