package mcp

import "github.com/sanonone/kektorgraph/pkg/graph"

// --- Tool Arguments ---

type AddRelationshipArgs struct {
	Entity1      string `json:"entity1" jsonschema:"Source entity of the relationship (e.g. 'Laptop')"`
	Relationship string `json:"relationship" jsonschema:"Relationship label (e.g. 'belongs_to')"`
	Entity2      string `json:"entity2" jsonschema:"Target entity of the relationship (e.g. 'Electronics')"`
}

type RemoveRelationshipArgs struct {
	Entity1 string `json:"entity1" jsonschema:"Exact, case-sensitive source entity"`
	Entity2 string `json:"entity2" jsonschema:"Exact, case-sensitive target entity"`
}

type MutationResult struct {
	Message            string `json:"message"`
	TotalEntities      int    `json:"total_entities"`
	TotalRelationships int    `json:"total_relationships"`
}

type QueryNeighborsArgs struct {
	Entity    string `json:"entity" jsonschema:"Entity to inspect, matched case-insensitively"`
	Direction string `json:"direction,omitempty" jsonschema:"Which edges to list: 'out', 'in' or 'both'. Default 'both'"`
}

type QueryNeighborsResult struct {
	Entity           string                   `json:"entity"`
	Outgoing         []graph.OutgoingNeighbor `json:"outgoing,omitzero"`
	Incoming         []graph.IncomingNeighbor `json:"incoming,omitzero"`
	GraphDescription string                   `json:"graph_description"` // Textual description of connections
}

type PathArgs struct {
	Source string `json:"source" jsonschema:"Start entity, matched case-insensitively"`
	Target string `json:"target" jsonschema:"End entity, matched case-insensitively"`
}

type FindPathsResult struct {
	PathsFound int      `json:"paths_found"`
	Truncated  bool     `json:"truncated,omitempty"`
	Paths      []string `json:"paths"` // "A --[r]--> B --[s]--> C"
}

type ShortestPathResult struct {
	Found bool   `json:"found"`
	Hops  int    `json:"hops"`
	Path  string `json:"path,omitempty"`
}

type SearchRelationshipArgs struct {
	Relationship string `json:"relationship" jsonschema:"Relationship label to look for, matched case-insensitively"`
}

type SearchRelationshipResult struct {
	Count int      `json:"count"`
	Edges []string `json:"edges"`
}

type GraphStatsArgs struct{}
