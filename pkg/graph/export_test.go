package graph

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestExportRoundTrip(t *testing.T) {
	src := New(DefaultOptions())
	src.Seed()
	src.AddRelationship("Isolated", "temp", "Other")
	src.RemoveRelationship("Isolated", "temp")
	src.RemoveRelationship("Isolated", "Other")

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"nodes\"") {
		t.Errorf("export should be indented with two spaces:\n%s", data)
	}

	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(exp.Edges) != len(SampleTriples) {
		t.Errorf("exported %d edges, want %d", len(exp.Edges), len(SampleTriples))
	}

	dst := New(DefaultOptions())
	res, err := dst.ImportJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if res.AddedCount != len(exp.Edges) || len(res.Errors) != 0 {
		t.Errorf("replay failed: %+v", res)
	}

	if !reflect.DeepEqual(src.Export().Edges, dst.Export().Edges) {
		t.Errorf("edge sets differ after round trip")
	}
	if !reflect.DeepEqual(src.Stats().RelationshipTypes, dst.Stats().RelationshipTypes) {
		t.Errorf("labels differ: %v vs %v", src.Stats().RelationshipTypes, dst.Stats().RelationshipTypes)
	}

	// Isolated nodes are not carried over.
	if src.Stats().TotalEntities == dst.Stats().TotalEntities {
		t.Errorf("isolated entities should be lost on round trip")
	}
}

func TestImportJSONInvalid(t *testing.T) {
	g := New(DefaultOptions())
	if _, err := g.ImportJSON([]byte("{not json")); err == nil {
		t.Error("expected an error for malformed export")
	}
}

func TestStatsSnapshotIsCopy(t *testing.T) {
	g := New(DefaultOptions())
	g.AddRelationship("A", "r", "B")

	stats := g.Stats()
	stats.RelationshipTypes["r"] = 99
	stats.RelationshipTypes["injected"] = 1

	if got := g.Stats().RelationshipTypes; !reflect.DeepEqual(got, map[string]int{"r": 1}) {
		t.Errorf("caller mutation leaked into the store: %v", got)
	}
}
