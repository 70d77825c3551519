// Package graph provides the in-memory knowledge graph engine of kektorgraph.
//
// A Store holds a simple directed graph over string entity identifiers. Every
// directed pair of entities carries at most one relationship label, and the
// store keeps a per-label counter in sync with the edge set.
//
// Basic usage:
//
//	g := graph.New(graph.DefaultOptions())
//	if _, err := g.AddRelationship("Laptop", "belongs_to", "Electronics"); err != nil {
//	    log.Fatal(err)
//	}
//	res, _ := g.FindPaths("laptop", "electronics")
//
// All methods are safe for concurrent use. Mutations are serialized behind a
// write lock, queries share a read lock.
package graph

import (
	"strings"
	"sync"

	"github.com/tidwall/btree"
)

// Options configures path enumeration limits.
type Options struct {
	// PathCutoff is the maximum number of edges in an enumerated path.
	PathCutoff int

	// MaxPathsReturned caps the paths included in a FindPaths result.
	// The reported total is never capped by this value.
	MaxPathsReturned int

	// MaxPathsExplored stops the search after this many paths have been found.
	// Set to 0 to enumerate every path within the cutoff.
	MaxPathsExplored int
}

// DefaultOptions returns the default limits:
//   - PathCutoff: 5 edges
//   - MaxPathsReturned: 10
//   - MaxPathsExplored: unlimited
func DefaultOptions() Options {
	return Options{
		PathCutoff:       5,
		MaxPathsReturned: 10,
		MaxPathsExplored: 0,
	}
}

type btreeNodes = btree.Map[string, *entity]

// entity is a node and its adjacency. out maps target -> label, in maps source -> label.
type entity struct {
	id  string
	out btree.Map[string, string]
	in  btree.Map[string, string]
}

func (e *entity) degree() int {
	return e.out.Len() + e.in.Len()
}

// Store is the graph engine. Use New to create one.
type Store struct {
	mu   sync.RWMutex
	opts Options

	// nodes is ordered by identifier so every iteration is deterministic.
	nodes btreeNodes

	// folded maps strings.ToLower(id) to the first id registered under that key.
	folded map[string]string

	edgeCount         int
	relationshipTypes map[string]int
}

// New creates an empty Store. Zero or negative limits fall back to DefaultOptions.
func New(opts Options) *Store {
	def := DefaultOptions()
	if opts.PathCutoff <= 0 {
		opts.PathCutoff = def.PathCutoff
	}
	if opts.MaxPathsReturned <= 0 {
		opts.MaxPathsReturned = def.MaxPathsReturned
	}
	if opts.MaxPathsExplored < 0 {
		opts.MaxPathsExplored = def.MaxPathsExplored
	}

	return &Store{
		opts:              opts,
		folded:            make(map[string]string),
		relationshipTypes: make(map[string]int),
	}
}

// Options returns the limits the store was created with.
func (s *Store) Options() Options {
	return s.opts
}

// ensureEntity returns the node for id, creating it if needed.
// Caller must hold the write lock.
func (s *Store) ensureEntity(id string) *entity {
	if n, ok := s.nodes.Get(id); ok {
		return n
	}
	n := &entity{id: id}
	s.nodes.Set(id, n)

	key := strings.ToLower(id)
	if _, taken := s.folded[key]; !taken {
		s.folded[key] = id
	}
	return n
}

// resolve finds the node matching name case-insensitively after trimming.
// Caller must hold a lock.
func (s *Store) resolve(name string) (*entity, bool) {
	id, ok := s.folded[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return s.nodes.Get(id)
}

// incLabel and decLabel keep relationshipTypes free of zero entries.
func (s *Store) incLabel(label string) {
	s.relationshipTypes[label]++
}

func (s *Store) decLabel(label string) {
	n, ok := s.relationshipTypes[label]
	if !ok {
		return
	}
	if n <= 1 {
		delete(s.relationshipTypes, label)
		return
	}
	s.relationshipTypes[label] = n - 1
}

// statsLocked builds a stats snapshot. Caller must hold a lock.
func (s *Store) statsLocked() Stats {
	types := make(map[string]int, len(s.relationshipTypes))
	for label, n := range s.relationshipTypes {
		types[label] = n
	}
	return Stats{
		TotalEntities:      s.nodes.Len(),
		TotalRelationships: s.edgeCount,
		RelationshipTypes:  types,
	}
}
