package graph

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// FindPaths enumerates simple paths from source to target along outgoing edges,
// up to Options.PathCutoff edges. Both endpoints resolve case-insensitively.
//
// A branch ends as soon as it reaches the target, so when source and target are
// the same entity only cycles through other entities are reported. Finding no
// path is not an error.
func (s *Store) FindPaths(source, target string) (PathsResult, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)

	s.mu.RLock()
	defer s.mu.RUnlock()

	from, okFrom := s.resolve(source)
	to, okTo := s.resolve(target)
	if !okFrom || !okTo {
		return PathsResult{}, &NotFoundError{Message: "Source or target entity not found"}
	}

	ps := &pathSearch{
		store:      s,
		target:     to.id,
		cutoff:     s.opts.PathCutoff,
		limit:      s.opts.MaxPathsReturned,
		maxExplore: s.opts.MaxPathsExplored,
		onPath:     map[string]bool{from.id: true},
		ids:        []string{from.id},
	}
	ps.walk(from)

	res := PathsResult{
		Status:     StatusSuccess,
		Source:     source,
		Target:     target,
		PathsFound: ps.found,
		Paths:      ps.paths,
		Truncated:  ps.truncated,
	}
	if res.Paths == nil {
		res.Paths = []Path{}
	}
	if ps.found == 0 {
		res.Message = fmt.Sprintf("No path found between %s and %s", source, target)
	}
	return res, nil
}

// pathSearch is the state of one depth-bounded backtracking search.
// ids and labels form the current branch: labels[i] leads from ids[i] to ids[i+1].
type pathSearch struct {
	store      *Store
	target     string
	cutoff     int
	limit      int
	maxExplore int

	ids    []string
	labels []string
	onPath map[string]bool

	found     int
	paths     []Path
	truncated bool
}

func (ps *pathSearch) walk(n *entity) {
	depth := len(ps.labels)

	n.out.Scan(func(next, label string) bool {
		if next == n.id {
			return true
		}
		if next == ps.target {
			ps.record(label)
			return !ps.truncated
		}
		if ps.onPath[next] || depth+1 >= ps.cutoff {
			return true
		}
		child, ok := ps.store.nodes.Get(next)
		if !ok {
			return true
		}

		ps.ids = append(ps.ids, next)
		ps.labels = append(ps.labels, label)
		ps.onPath[next] = true

		ps.walk(child)

		delete(ps.onPath, next)
		ps.ids = ps.ids[:len(ps.ids)-1]
		ps.labels = ps.labels[:len(ps.labels)-1]

		return !ps.truncated
	})
}

// record counts the branch extended by label -> target and keeps it if under the limit.
func (ps *pathSearch) record(label string) {
	ps.found++

	if len(ps.paths) < ps.limit {
		p := make(Path, 0, len(ps.ids)+1)
		for i, id := range ps.ids {
			rel := label
			if i < len(ps.labels) {
				rel = ps.labels[i]
			}
			p = append(p, PathStep{Entity: id, Relationship: rel})
		}
		p = append(p, PathStep{Entity: ps.target})
		ps.paths = append(ps.paths, p)
	}

	if ps.maxExplore > 0 && ps.found >= ps.maxExplore {
		ps.truncated = true
	}
}

// ShortestPath returns a path with the fewest edges from source to target, following
// outgoing edges. Endpoints resolve case-insensitively. When no path exists the
// result has Found set to false. A source equal to target yields a zero hop path.
func (s *Store) ShortestPath(source, target string) (ShortestPathResult, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)

	s.mu.RLock()
	defer s.mu.RUnlock()

	from, okFrom := s.resolve(source)
	to, okTo := s.resolve(target)
	if !okFrom || !okTo {
		return ShortestPathResult{}, &NotFoundError{Message: "Source or target entity not found"}
	}

	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, s.nodes.Len())
	names := make([]string, 0, s.nodes.Len())
	s.nodes.Scan(func(id string, _ *entity) bool {
		ids[id] = int64(len(names))
		names = append(names, id)
		g.AddNode(simple.Node(ids[id]))
		return true
	})
	s.scanEdges(func(e EdgeRecord) {
		// simple.DirectedGraph rejects self edges; they never shorten a path.
		if e.Source == e.Target {
			return
		}
		g.SetEdge(g.NewEdge(simple.Node(ids[e.Source]), simple.Node(ids[e.Target])))
	})

	shortest := path.DijkstraFrom(g.Node(ids[from.id]), g)
	nodes, _ := shortest.To(ids[to.id])

	res := ShortestPathResult{
		Status: StatusSuccess,
		Source: source,
		Target: target,
		Path:   Path{},
	}
	if len(nodes) == 0 {
		res.Message = fmt.Sprintf("No path found between %s and %s", source, target)
		return res, nil
	}

	res.Found = true
	res.Hops = len(nodes) - 1
	for i, n := range nodes {
		step := PathStep{Entity: names[n.ID()]}
		if i < len(nodes)-1 {
			cur, _ := s.nodes.Get(step.Entity)
			step.Relationship, _ = cur.out.Get(names[nodes[i+1].ID()])
		}
		res.Path = append(res.Path, step)
	}
	return res, nil
}
