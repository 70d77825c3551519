package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/metrics"
)

const (
	statsURI          = "kektorgraph://stats"
	entityURITemplate = "kektorgraph://entity/{name}"
)

var entityTemplate = uritemplate.MustNew(entityURITemplate)

type Service struct {
	graph *graph.Store
}

func NewService(g *graph.Store) *Service {
	return &Service{graph: g}
}

// --- Tool Handlers ---

func (s *Service) AddRelationship(ctx context.Context, req *mcp.CallToolRequest, args AddRelationshipArgs) (*mcp.CallToolResult, MutationResult, error) {
	res, err := s.graph.AddRelationship(args.Entity1, args.Relationship, args.Entity2)
	if err != nil {
		return nil, MutationResult{}, err
	}
	metrics.ObserveGraph(s.graph)
	return nil, mutationResult(res), nil
}

func (s *Service) RemoveRelationship(ctx context.Context, req *mcp.CallToolRequest, args RemoveRelationshipArgs) (*mcp.CallToolResult, MutationResult, error) {
	res, err := s.graph.RemoveRelationship(strings.TrimSpace(args.Entity1), strings.TrimSpace(args.Entity2))
	if err != nil {
		return nil, MutationResult{}, err
	}
	metrics.ObserveGraph(s.graph)
	return nil, mutationResult(res), nil
}

func mutationResult(res graph.MutationResult) MutationResult {
	return MutationResult{
		Message:            res.Message,
		TotalEntities:      res.GraphStats.TotalEntities,
		TotalRelationships: res.GraphStats.TotalRelationships,
	}
}

func (s *Service) QueryNeighbors(ctx context.Context, req *mcp.CallToolRequest, args QueryNeighborsArgs) (*mcp.CallToolResult, QueryNeighborsResult, error) {
	res, err := s.graph.QueryNeighbors(args.Entity, args.Direction)
	if err != nil {
		return nil, QueryNeighborsResult{}, err
	}

	return nil, QueryNeighborsResult{
		Entity:           res.Resolved,
		Outgoing:         res.Neighbors.Outgoing,
		Incoming:         res.Neighbors.Incoming,
		GraphDescription: describeNeighbors(res),
	}, nil
}

func describeNeighbors(res graph.NeighborsResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Graph context around '%s':\n", res.Resolved))
	for _, n := range res.Neighbors.Outgoing {
		sb.WriteString(fmt.Sprintf("- %s --[%s]--> %s\n", res.Resolved, n.Relationship, n.Target))
	}
	for _, n := range res.Neighbors.Incoming {
		sb.WriteString(fmt.Sprintf("- %s <--[%s]-- %s\n", res.Resolved, n.Relationship, n.Source))
	}
	if len(res.Neighbors.Outgoing)+len(res.Neighbors.Incoming) == 0 {
		sb.WriteString("(no connections)\n")
	}
	return sb.String()
}

func (s *Service) FindPaths(ctx context.Context, req *mcp.CallToolRequest, args PathArgs) (*mcp.CallToolResult, FindPathsResult, error) {
	res, err := s.graph.FindPaths(args.Source, args.Target)
	if err != nil {
		return nil, FindPathsResult{}, err
	}
	metrics.PathsFound.Observe(float64(res.PathsFound))

	out := FindPathsResult{
		PathsFound: res.PathsFound,
		Truncated:  res.Truncated,
		Paths:      make([]string, len(res.Paths)),
	}
	for i, p := range res.Paths {
		out.Paths[i] = formatPath(p)
	}
	return nil, out, nil
}

func (s *Service) ShortestPath(ctx context.Context, req *mcp.CallToolRequest, args PathArgs) (*mcp.CallToolResult, ShortestPathResult, error) {
	res, err := s.graph.ShortestPath(args.Source, args.Target)
	if err != nil {
		return nil, ShortestPathResult{}, err
	}
	if !res.Found {
		return nil, ShortestPathResult{}, nil
	}
	return nil, ShortestPathResult{Found: true, Hops: res.Hops, Path: formatPath(res.Path)}, nil
}

// formatPath renders a path as "A --[r]--> B --[s]--> C".
func formatPath(p graph.Path) string {
	var sb strings.Builder
	for _, step := range p {
		sb.WriteString(step.Entity)
		if step.Relationship != "" {
			sb.WriteString(fmt.Sprintf(" --[%s]--> ", step.Relationship))
		}
	}
	return sb.String()
}

func (s *Service) SearchRelationship(ctx context.Context, req *mcp.CallToolRequest, args SearchRelationshipArgs) (*mcp.CallToolResult, SearchRelationshipResult, error) {
	res := s.graph.SearchByRelationship(args.Relationship)

	out := SearchRelationshipResult{Count: res.Count, Edges: make([]string, len(res.Results))}
	for i, e := range res.Results {
		out.Edges[i] = fmt.Sprintf("%s --[%s]--> %s", e.Source, e.Relationship, e.Target)
	}
	return nil, out, nil
}

func (s *Service) GraphStats(ctx context.Context, req *mcp.CallToolRequest, args GraphStatsArgs) (*mcp.CallToolResult, graph.Stats, error) {
	return nil, s.graph.Stats(), nil
}

// --- Resource Handlers ---

func (s *Service) ReadStats(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.graph.Stats())
}

// ReadEntity serves kektorgraph://entity/{name} with both neighbor lists.
func (s *Service) ReadEntity(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	values := entityTemplate.Match(uri)
	if values == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	res, err := s.graph.QueryNeighbors(values.Get("name").String(), string(graph.DirectionBoth))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, res)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
