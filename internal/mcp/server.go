package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

const serverVersion = "0.1.0"

func NewMCPServer(g *graph.Store) *mcp.Server {
	service := NewService(g)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "KektorGraph",
		Version: serverVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_relationship",
		Description: "Add a directed relationship 'entity1 --[relationship]--> entity2'. Replaces the label of an existing edge between the same pair.",
	}, service.AddRelationship)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "remove_relationship",
		Description: "Remove the relationship from entity1 to entity2. Names must match exactly.",
	}, service.RemoveRelationship)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "query_neighbors",
		Description: "List the entities directly connected to an entity, with the relationship labels.",
		InputSchema: neighborsSchema(),
	}, service.QueryNeighbors)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_paths",
		Description: "Discover how two entities are connected: every simple path along relationship direction, up to the configured length.",
	}, service.FindPaths)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "shortest_path",
		Description: "Find a path with the fewest relationships between two entities.",
	}, service.ShortestPath)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_relationship",
		Description: "List every relationship with the given label.",
	}, service.SearchRelationship)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Count entities, relationships and relationship labels in the graph.",
	}, service.GraphStats)

	s.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "graph_stats",
		Description: "Current graph statistics",
		MIMEType:    "application/json",
	}, service.ReadStats)

	s.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: entityURITemplate,
		Name:        "entity",
		Description: "Incoming and outgoing relationships of one entity",
		MIMEType:    "application/json",
	}, service.ReadEntity)

	return s
}

// neighborsSchema is the inferred argument schema with direction restricted to its known values.
func neighborsSchema() *jsonschema.Schema {
	schema, err := jsonschema.For[QueryNeighborsArgs](nil)
	if err != nil {
		panic(err)
	}
	if dir, ok := schema.Properties["direction"]; ok {
		dir.Enum = []any{string(graph.DirectionOut), string(graph.DirectionIn), string(graph.DirectionBoth)}
	}
	return schema
}
