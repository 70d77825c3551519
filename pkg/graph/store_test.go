package graph

import (
	"encoding/json"
	"reflect"
	"slices"
	"sync"
	"testing"
)

func TestAddRelationshipNeighbors(t *testing.T) {
	g := New(DefaultOptions())

	res, err := g.AddRelationship("  Laptop ", "belongs_to", " Electronics")
	if err != nil {
		t.Fatalf("AddRelationship failed: %v", err)
	}
	if res.Status != StatusSuccess {
		t.Errorf("Status = %q, want success", res.Status)
	}
	if res.Message != "Relationship added: Laptop --[belongs_to]--> Electronics" {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if res.GraphStats.TotalEntities != 2 || res.GraphStats.TotalRelationships != 1 {
		t.Errorf("unexpected stats: %+v", res.GraphStats)
	}

	out, err := g.QueryNeighbors("Laptop", "out")
	if err != nil {
		t.Fatal(err)
	}
	want := OutgoingNeighbor{Target: "Electronics", Relationship: "belongs_to"}
	if !slices.Contains(out.Neighbors.Outgoing, want) {
		t.Errorf("outgoing missing %v, got %v", want, out.Neighbors.Outgoing)
	}
	if out.Neighbors.Incoming != nil {
		t.Errorf("direction out should not list incoming, got %v", out.Neighbors.Incoming)
	}

	in, err := g.QueryNeighbors("Electronics", "in")
	if err != nil {
		t.Fatal(err)
	}
	wantIn := IncomingNeighbor{Source: "Laptop", Relationship: "belongs_to"}
	if !slices.Contains(in.Neighbors.Incoming, wantIn) {
		t.Errorf("incoming missing %v, got %v", wantIn, in.Neighbors.Incoming)
	}
}

func TestAddRelationshipValidation(t *testing.T) {
	g := New(DefaultOptions())

	cases := [][3]string{
		{"", "rel", "b"},
		{"a", "   ", "b"},
		{"a", "rel", "\t"},
	}
	for _, c := range cases {
		_, err := g.AddRelationship(c[0], c[1], c[2])
		if !IsValidation(err) {
			t.Errorf("AddRelationship(%q, %q, %q) err = %v, want ValidationError", c[0], c[1], c[2], err)
		}
	}

	stats := g.Stats()
	if stats.TotalEntities != 0 || stats.TotalRelationships != 0 || len(stats.RelationshipTypes) != 0 {
		t.Errorf("failed validation must not mutate, got %+v", stats)
	}
}

func TestRelationshipCounter(t *testing.T) {
	g := New(DefaultOptions())

	g.AddRelationship("A", "likes", "B")
	g.AddRelationship("C", "likes", "D")

	// Same pair, same label: the edge is unchanged but counted again.
	g.AddRelationship("A", "likes", "B")
	stats := g.Stats()
	if stats.TotalRelationships != 2 {
		t.Errorf("TotalRelationships = %d, want 2", stats.TotalRelationships)
	}
	if stats.RelationshipTypes["likes"] != 3 {
		t.Errorf("likes = %d, want 3", stats.RelationshipTypes["likes"])
	}

	// Relabel: old label decremented, new one incremented.
	g.AddRelationship("C", "hates", "D")
	stats = g.Stats()
	if stats.RelationshipTypes["likes"] != 2 || stats.RelationshipTypes["hates"] != 1 {
		t.Errorf("after relabel got %v", stats.RelationshipTypes)
	}
	if stats.TotalRelationships != 2 {
		t.Errorf("relabel must not add an edge, got %d", stats.TotalRelationships)
	}

	// Removing the last edge of a label deletes the entry.
	if _, err := g.RemoveRelationship("C", "D"); err != nil {
		t.Fatal(err)
	}
	stats = g.Stats()
	if _, ok := stats.RelationshipTypes["hates"]; ok {
		t.Errorf("zero count entry must be removed, got %v", stats.RelationshipTypes)
	}
}

func TestRelabelRemovesExhaustedLabel(t *testing.T) {
	g := New(DefaultOptions())
	g.AddRelationship("A", "old", "B")
	g.AddRelationship("A", "new", "B")

	want := map[string]int{"new": 1}
	if got := g.Stats().RelationshipTypes; !reflect.DeepEqual(got, want) {
		t.Errorf("RelationshipTypes = %v, want %v", got, want)
	}

	out, _ := g.QueryNeighbors("A", "out")
	if len(out.Neighbors.Outgoing) != 1 || out.Neighbors.Outgoing[0].Relationship != "new" {
		t.Errorf("edge should carry the last label, got %v", out.Neighbors.Outgoing)
	}
}

func TestRemoveRelationship(t *testing.T) {
	g := New(DefaultOptions())
	g.AddRelationship("Amazon", "sells", "Books")

	// Remove is exact: no case folding.
	_, err := g.RemoveRelationship("amazon", "Books")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "No relationship found between amazon and Books" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	// Reverse direction does not exist either.
	if _, err := g.RemoveRelationship("Books", "Amazon"); !IsNotFound(err) {
		t.Errorf("expected NotFoundError for reverse pair, got %v", err)
	}

	res, err := g.RemoveRelationship("Amazon", "Books")
	if err != nil {
		t.Fatal(err)
	}
	if res.Message != "Relationship removed: Amazon --[sells]--> Books" {
		t.Errorf("unexpected message: %q", res.Message)
	}

	// Entities survive as isolated nodes.
	if res.GraphStats.TotalEntities != 2 || res.GraphStats.TotalRelationships != 0 {
		t.Errorf("unexpected stats after remove: %+v", res.GraphStats)
	}
	nb, err := g.QueryNeighbors("books", "both")
	if err != nil {
		t.Fatalf("isolated node should still resolve: %v", err)
	}
	if len(nb.Neighbors.Incoming) != 0 || len(nb.Neighbors.Outgoing) != 0 {
		t.Errorf("isolated node should have no neighbors, got %+v", nb.Neighbors)
	}
}

func TestQueryNeighborsCaseInsensitive(t *testing.T) {
	g := New(DefaultOptions())
	g.Seed()

	lower, err := g.QueryNeighbors("amazon", "both")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := g.QueryNeighbors("AMAZON", "both")
	if err != nil {
		t.Fatal(err)
	}
	if lower.Resolved != "Amazon" || upper.Resolved != "Amazon" {
		t.Errorf("resolved to %q and %q, want Amazon", lower.Resolved, upper.Resolved)
	}
	if !reflect.DeepEqual(lower.Neighbors, upper.Neighbors) {
		t.Errorf("case variants returned different neighbors:\n%v\n%v", lower.Neighbors, upper.Neighbors)
	}
	if lower.Entity != "amazon" {
		t.Errorf("Entity should echo the query, got %q", lower.Entity)
	}

	if _, err := g.QueryNeighbors("NoSuchThing", "both"); !IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestQueryNeighborsDirection(t *testing.T) {
	g := New(DefaultOptions())
	g.AddRelationship("A", "r1", "B")
	g.AddRelationship("C", "r2", "A")

	res, err := g.QueryNeighbors("A", "sideways")
	if err != nil {
		t.Fatal(err)
	}
	if res.Direction != DirectionBoth {
		t.Errorf("unknown direction should fall back to both, got %q", res.Direction)
	}
	if len(res.Neighbors.Outgoing) != 1 || len(res.Neighbors.Incoming) != 1 {
		t.Errorf("both should list both sides, got %+v", res.Neighbors)
	}

	res, _ = g.QueryNeighbors("A", " IN ")
	if res.Direction != DirectionIn || res.Neighbors.Outgoing != nil {
		t.Errorf("direction IN not honoured: %+v", res)
	}
}

func TestQueryNeighborsEncodesEmptyLists(t *testing.T) {
	g := New(DefaultOptions())
	g.AddRelationship("A", "r1", "B")

	res, err := g.QueryNeighbors("B", "both")
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(res.Neighbors)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"outgoing":[],"incoming":[{"source":"A","relationship":"r1"}]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	res, _ = g.QueryNeighbors("B", "in")
	data, _ = json.Marshal(res.Neighbors)
	if want := `{"incoming":[{"source":"A","relationship":"r1"}]}`; string(data) != want {
		t.Errorf("unrequested list should be omitted, got %s", data)
	}
}

func TestSelfLoop(t *testing.T) {
	g := New(DefaultOptions())
	if _, err := g.AddRelationship("Node", "refers_to", "Node"); err != nil {
		t.Fatal(err)
	}

	stats := g.Stats()
	if stats.TotalEntities != 1 || stats.TotalRelationships != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	data := g.GetGraphData()
	if len(data.Nodes) != 1 || data.Nodes[0].Size != 12 {
		t.Errorf("self loop counts as in and out degree, got %+v", data.Nodes)
	}
}

func TestSearchByRelationship(t *testing.T) {
	g := New(DefaultOptions())
	g.Seed()

	res := g.SearchByRelationship("BELONGS_TO")
	if res.Count != 3 || len(res.Results) != 3 {
		t.Fatalf("Count = %d, want 3", res.Count)
	}
	for _, r := range res.Results {
		if r.Relationship != "belongs_to" {
			t.Errorf("result should echo stored label, got %q", r.Relationship)
		}
		if r.Target != "Electronics" {
			t.Errorf("unexpected target %q", r.Target)
		}
	}

	// Exact match, not substring.
	if res := g.SearchByRelationship("sells"); res.Count != 1 {
		t.Errorf("sells should not match sells_on, got %d", res.Count)
	}
	if res := g.SearchByRelationship("missing"); res.Count != 0 || res.Results == nil {
		t.Errorf("expected empty non-nil results, got %+v", res)
	}
}

func TestClear(t *testing.T) {
	g := New(DefaultOptions())
	g.Seed()
	g.Clear()

	stats := g.Stats()
	if stats.TotalEntities != 0 || stats.TotalRelationships != 0 || len(stats.RelationshipTypes) != 0 {
		t.Errorf("Clear left state behind: %+v", stats)
	}
	if _, err := g.QueryNeighbors("Amazon", "both"); !IsNotFound(err) {
		t.Errorf("lookup index should be cleared, got %v", err)
	}

	// Clear is idempotent.
	g.Clear()
	if s := g.Stats(); s.TotalEntities != 0 {
		t.Errorf("second Clear changed stats: %+v", s)
	}
}

func TestBatch(t *testing.T) {
	g := New(DefaultOptions())

	res := g.AddRelationshipsBatch([]Triple{
		{"A", "r", "B"},
		{"", "r", "B"},
		{"A", "s", "B"},
		{"C", "", "D"},
	})
	if !res.Success() || res.Status != StatusSuccess {
		t.Errorf("batch with successful rows should succeed, got %+v", res)
	}
	if res.AddedCount != 2 || res.TotalCount != 4 {
		t.Errorf("AddedCount = %d TotalCount = %d", res.AddedCount, res.TotalCount)
	}
	if len(res.Errors) != 2 || res.Errors[0].Row != 2 || res.Errors[1].Row != 4 {
		t.Errorf("unexpected row errors: %+v", res.Errors)
	}

	// Later rows override earlier ones for the same pair.
	if got := res.GraphStats.RelationshipTypes; !reflect.DeepEqual(got, map[string]int{"s": 1}) {
		t.Errorf("RelationshipTypes = %v", got)
	}

	empty := g.AddRelationshipsBatch([]Triple{{"", "", ""}})
	if empty.Success() || empty.Status != "error" {
		t.Errorf("batch without successes should fail, got %+v", empty)
	}
}

func TestGetGraphData(t *testing.T) {
	g := New(DefaultOptions())
	g.AddRelationship("B", "r1", "A")
	g.AddRelationship("B", "r2", "C")

	data := g.GetGraphData()
	if len(data.Nodes) != 3 || len(data.Links) != 2 {
		t.Fatalf("got %d nodes %d links", len(data.Nodes), len(data.Links))
	}

	byLabel := map[string]VisualNode{}
	for i, n := range data.Nodes {
		if n.ID != i {
			t.Errorf("ids must be dense, node %d has id %d", i, n.ID)
		}
		byLabel[n.Label] = n
	}
	if byLabel["B"].Size != 12 || byLabel["A"].Size != 11 {
		t.Errorf("unexpected sizes: %+v", byLabel)
	}
	for _, l := range data.Links {
		if data.Nodes[l.Source].Label != "B" {
			t.Errorf("link source should be B, got %q", data.Nodes[l.Source].Label)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	g := New(DefaultOptions())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.AddRelationship("hub", "links", string(rune('a'+i)))
				g.QueryNeighbors("HUB", "out")
				g.FindPaths("hub", string(rune('a'+i)))
			}
		}(i)
	}
	wg.Wait()

	stats := g.Stats()
	if stats.TotalRelationships != 8 {
		t.Errorf("TotalRelationships = %d, want 8", stats.TotalRelationships)
	}
	if stats.RelationshipTypes["links"] != 400 {
		t.Errorf("links = %d, want 400", stats.RelationshipTypes["links"])
	}
}
