package server

import "github.com/sanonone/kektorgraph/pkg/graph"

// RelationshipRequest is the body of add-relationship.
type RelationshipRequest struct {
	Entity1      string `json:"entity1"`
	Relationship string `json:"relationship"`
	Entity2      string `json:"entity2"`
}

// BatchRelationshipRequest is the body of add-relationships.
type BatchRelationshipRequest struct {
	Relationships []graph.Triple `json:"relationships"`
}

// RemoveRelationshipRequest is the body of remove-relationship.
type RemoveRelationshipRequest struct {
	Entity1 string `json:"entity1"`
	Entity2 string `json:"entity2"`
}

type NeighborsRequest struct {
	Entity    string `json:"entity"`
	Direction string `json:"direction,omitempty"`
}

// PathRequest is shared by find-path and shortest-path.
type PathRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type SearchRequest struct {
	Relationship string `json:"relationship"`
}

// StatsResponse wraps graph stats the way the stats route returns them.
type StatsResponse struct {
	Status string      `json:"status"`
	Stats  graph.Stats `json:"stats"`
}

// ClearResponse is returned by the clear route.
type ClearResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	GraphStats graph.Stats `json:"graph_stats"`
}

// TaskAccepted is returned by asynchronous uploads.
type TaskAccepted struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
}

// SkippedLine is a CSV line the reader could not turn into a triple.
type SkippedLine struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// CSVUploadResponse extends the batch result with lines the CSV reader skipped.
type CSVUploadResponse struct {
	graph.BatchResult
	SkippedLines []SkippedLine `json:"skipped_lines,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
