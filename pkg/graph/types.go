package graph

// StatusSuccess is the status carried by every successful result.
const StatusSuccess = "success"

// Triple is one (entity1, relationship, entity2) row of bulk input.
type Triple struct {
	Entity1      string `json:"entity1"`
	Relationship string `json:"relationship"`
	Entity2      string `json:"entity2"`
}

// Stats summarizes the graph. RelationshipTypes maps label -> count.
type Stats struct {
	TotalEntities      int            `json:"total_entities"`
	TotalRelationships int            `json:"total_relationships"`
	RelationshipTypes  map[string]int `json:"relationship_types"`
}

// MutationResult is returned by AddRelationship and RemoveRelationship.
type MutationResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	GraphStats Stats  `json:"graph_stats"`
}

// RowError describes a failed row of a batch. Row is 1-based.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BatchResult is returned by AddRelationshipsBatch.
// Status is "success" when at least one row was added and "error" otherwise.
type BatchResult struct {
	Status     string     `json:"status"`
	AddedCount int        `json:"added_count"`
	TotalCount int        `json:"total_count"`
	Errors     []RowError `json:"errors"`
	GraphStats Stats      `json:"graph_stats"`
}

// Success reports whether at least one row of the batch was applied.
func (r BatchResult) Success() bool {
	return r.AddedCount > 0
}

// OutgoingNeighbor is an edge leaving the queried entity.
type OutgoingNeighbor struct {
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// IncomingNeighbor is an edge arriving at the queried entity.
type IncomingNeighbor struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
}

// Neighbors holds the lists requested by a direction. A list not requested is nil
// and left out of the JSON; a requested list with no edges encodes as [].
type Neighbors struct {
	Outgoing []OutgoingNeighbor `json:"outgoing,omitzero"`
	Incoming []IncomingNeighbor `json:"incoming,omitzero"`
}

// NeighborsResult is returned by QueryNeighbors. Entity echoes the trimmed query,
// Resolved is the identifier it matched.
type NeighborsResult struct {
	Status    string    `json:"status"`
	Entity    string    `json:"entity"`
	Resolved  string    `json:"resolved"`
	Direction Direction `json:"direction"`
	Neighbors Neighbors `json:"neighbors"`
}

// PathStep is one hop of a path. The terminal step has no Relationship.
type PathStep struct {
	Entity       string `json:"entity"`
	Relationship string `json:"relationship,omitempty"`
}

// Path is an ordered list of steps from source to target.
type Path []PathStep

// PathsResult is returned by FindPaths. PathsFound is the total number of paths
// discovered; Paths holds at most Options.MaxPathsReturned of them.
type PathsResult struct {
	Status     string `json:"status"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	PathsFound int    `json:"paths_found"`
	Paths      []Path `json:"paths"`
	Truncated  bool   `json:"truncated,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ShortestPathResult is returned by ShortestPath.
type ShortestPathResult struct {
	Status  string `json:"status"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Found   bool   `json:"found"`
	Hops    int    `json:"hops"`
	Path    Path   `json:"path"`
	Message string `json:"message,omitempty"`
}

// EdgeRecord is a fully qualified edge.
type EdgeRecord struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// SearchResult is returned by SearchByRelationship.
type SearchResult struct {
	Status       string       `json:"status"`
	Relationship string       `json:"relationship"`
	Count        int          `json:"count"`
	Results      []EdgeRecord `json:"results"`
}

// VisualNode is a node of GetGraphData. ID is only meaningful within one call.
type VisualNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Size  int    `json:"size"`
}

// VisualLink references nodes by their VisualNode.ID.
type VisualLink struct {
	Source       int    `json:"source"`
	Target       int    `json:"target"`
	Relationship string `json:"relationship"`
}

// GraphData is a visualization-ready snapshot.
type GraphData struct {
	Nodes []VisualNode `json:"nodes"`
	Links []VisualLink `json:"links"`
}

// Export is the document produced by ExportJSON and consumed by ImportJSON.
type Export struct {
	Nodes []string     `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
	Stats Stats        `json:"stats"`
}
