package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction selects which edges QueryNeighbors reports.
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionBoth Direction = "both"
)

// ParseDirection normalizes a user supplied direction.
// Anything other than "in" or "out" (case-insensitive) becomes DirectionBoth.
func ParseDirection(s string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionIn:
		return DirectionIn
	case DirectionOut:
		return DirectionOut
	default:
		return DirectionBoth
	}
}

// Stats returns a snapshot of the entity, relationship and per-label counts.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

// QueryNeighbors lists the edges around entity, resolved case-insensitively.
// Neighbors are ordered by identifier.
func (s *Store) QueryNeighbors(entity string, direction string) (NeighborsResult, error) {
	entity = strings.TrimSpace(entity)
	dir := ParseDirection(direction)

	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.resolve(entity)
	if !ok {
		return NeighborsResult{}, &NotFoundError{
			Message: fmt.Sprintf("Entity '%s' not found in graph", entity),
		}
	}

	res := NeighborsResult{
		Status:    StatusSuccess,
		Entity:    entity,
		Resolved:  node.id,
		Direction: dir,
	}

	if dir == DirectionOut || dir == DirectionBoth {
		res.Neighbors.Outgoing = make([]OutgoingNeighbor, 0, node.out.Len())
		node.out.Scan(func(target, label string) bool {
			res.Neighbors.Outgoing = append(res.Neighbors.Outgoing, OutgoingNeighbor{Target: target, Relationship: label})
			return true
		})
	}

	if dir == DirectionIn || dir == DirectionBoth {
		res.Neighbors.Incoming = make([]IncomingNeighbor, 0, node.in.Len())
		node.in.Scan(func(source, label string) bool {
			res.Neighbors.Incoming = append(res.Neighbors.Incoming, IncomingNeighbor{Source: source, Relationship: label})
			return true
		})
	}

	return res, nil
}

// SearchByRelationship returns every edge whose label equals relationship,
// ignoring case. Results carry the stored label.
func (s *Store) SearchByRelationship(relationship string) SearchResult {
	query := strings.TrimSpace(relationship)

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := SearchResult{
		Status:       StatusSuccess,
		Relationship: query,
		Results:      []EdgeRecord{},
	}
	if query == "" {
		return res
	}

	s.scanEdges(func(e EdgeRecord) {
		if strings.EqualFold(e.Relationship, query) {
			res.Results = append(res.Results, e)
		}
	})
	res.Count = len(res.Results)
	return res
}

// scanEdges visits every edge ordered by (source, target). Caller must hold a lock.
func (s *Store) scanEdges(fn func(EdgeRecord)) {
	s.nodes.Scan(func(id string, n *entity) bool {
		n.out.Scan(func(target, label string) bool {
			fn(EdgeRecord{Source: id, Target: target, Relationship: label})
			return true
		})
		return true
	})
}

// GetGraphData returns nodes sized by degree and links referencing node indexes.
func (s *Store) GetGraphData() GraphData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := GraphData{
		Nodes: make([]VisualNode, 0, s.nodes.Len()),
		Links: make([]VisualLink, 0, s.edgeCount),
	}
	index := make(map[string]int, s.nodes.Len())

	s.nodes.Scan(func(id string, n *entity) bool {
		index[id] = len(data.Nodes)
		data.Nodes = append(data.Nodes, VisualNode{
			ID:    len(data.Nodes),
			Label: id,
			Size:  n.degree() + 10,
		})
		return true
	})

	s.scanEdges(func(e EdgeRecord) {
		data.Links = append(data.Links, VisualLink{
			Source:       index[e.Source],
			Target:       index[e.Target],
			Relationship: e.Relationship,
		})
	})

	return data
}

// Export returns every entity, every edge and the current stats.
func (s *Store) Export() Export {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp := Export{
		Nodes: make([]string, 0, s.nodes.Len()),
		Edges: make([]EdgeRecord, 0, s.edgeCount),
		Stats: s.statsLocked(),
	}
	s.nodes.Scan(func(id string, _ *entity) bool {
		exp.Nodes = append(exp.Nodes, id)
		return true
	})
	s.scanEdges(func(e EdgeRecord) {
		exp.Edges = append(exp.Edges, e)
	})
	return exp
}

// ExportJSON serializes Export with a two space indent.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph export: %w", err)
	}
	return data, nil
}

// ImportJSON replays the edges of an ExportJSON document through AddRelationshipsBatch.
// Entities without edges in the document are not recreated.
func (s *Store) ImportJSON(data []byte) (BatchResult, error) {
	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return BatchResult{}, fmt.Errorf("invalid graph export: %w", err)
	}

	triples := make([]Triple, len(exp.Edges))
	for i, e := range exp.Edges {
		triples[i] = Triple{Entity1: e.Source, Relationship: e.Relationship, Entity2: e.Target}
	}
	return s.AddRelationshipsBatch(triples), nil
}
