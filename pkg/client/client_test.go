package client

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektorgraph/internal/config"
	"github.com/sanonone/kektorgraph/internal/server"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

func newTestClient(t *testing.T, seed bool) (*Client, *graph.Store) {
	t.Helper()
	store := graph.New(graph.DefaultOptions())
	if seed {
		store.Seed()
	}

	srv, err := server.NewServer(store, config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewFromURL(ts.URL + "/"), store
}

func TestMutations(t *testing.T) {
	c, store := newTestClient(t, false)
	require.NoError(t, c.Health())

	res, err := c.AddRelationship("Laptop", "belongs_to", "Electronics")
	require.NoError(t, err)
	assert.Equal(t, graph.StatusSuccess, res.Status)
	assert.Equal(t, 1, res.GraphStats.TotalRelationships)

	_, err = c.AddRelationship("Laptop", "", "Electronics")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "All fields (Entity 1, Relationship, Entity 2) are required", apiErr.Message)

	batch, err := c.AddRelationships([]graph.Triple{
		{Entity1: "Tablet", Relationship: "belongs_to", Entity2: "Electronics"},
		{Entity1: "", Relationship: "x", Entity2: "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.AddedCount)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 2, batch.Errors[0].Row)

	removed, err := c.RemoveRelationship("Tablet", "Electronics")
	require.NoError(t, err)
	assert.Equal(t, 1, removed.GraphStats.TotalRelationships)

	_, err = c.RemoveRelationship("tablet", "electronics")
	assert.True(t, IsNotFound(err))

	stats, err := c.Clear()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntities)
	assert.Zero(t, store.Stats().TotalEntities)
}

func TestQueries(t *testing.T) {
	c, _ := newTestClient(t, true)

	neighbors, err := c.QueryNeighbors("SMARTPHONE", "both")
	require.NoError(t, err)
	assert.Equal(t, "Smartphone", neighbors.Resolved)
	assert.Equal(t, []graph.OutgoingNeighbor{{Target: "Electronics", Relationship: "belongs_to"}}, neighbors.Neighbors.Outgoing)
	assert.Equal(t, []graph.IncomingNeighbor{{Source: "iPhone", Relationship: "is_a"}}, neighbors.Neighbors.Incoming)

	_, err = c.QueryNeighbors("Mars", "both")
	assert.True(t, IsNotFound(err))

	paths, err := c.FindPaths("Tablet", "Books")
	require.NoError(t, err)
	assert.Equal(t, 1, paths.PathsFound)
	assert.Equal(t, graph.Path{
		{Entity: "Tablet", Relationship: "belongs_to"},
		{Entity: "Electronics", Relationship: "manages"},
		{Entity: "Amazon", Relationship: "sells"},
		{Entity: "Books"},
	}, paths.Paths[0])

	shortest, err := c.ShortestPath("Tablet", "Author1")
	require.NoError(t, err)
	assert.True(t, shortest.Found)
	assert.Equal(t, 4, shortest.Hops)

	search, err := c.SearchRelationship("belongs_to")
	require.NoError(t, err)
	assert.Equal(t, 3, search.Count)

	data, err := c.GraphData()
	require.NoError(t, err)
	assert.Len(t, data.Nodes, 11)
	assert.Len(t, data.Links, 12)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalRelationships)
}

func TestExportImport(t *testing.T) {
	src, _ := newTestClient(t, true)
	doc, err := src.Export()
	require.NoError(t, err)

	dst, store := newTestClient(t, false)
	res, err := dst.Import(doc)
	require.NoError(t, err)
	assert.Equal(t, 12, res.AddedCount)
	assert.Equal(t, 11, store.Stats().TotalEntities)
}

func TestUploadCSV(t *testing.T) {
	c, _ := newTestClient(t, false)

	res, err := c.UploadCSV("rel.csv", strings.NewReader("entity1,relationship,entity2\nA,r,B\nbad\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.AddedCount)
	require.Len(t, res.SkippedLines, 1)
	assert.Equal(t, 3, res.SkippedLines[0].Line)

	_, err = c.UploadCSV("rel.xlsx", strings.NewReader("entity1,relationship,entity2\n"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "File must be CSV or TXT format", apiErr.Message)
}

func TestUploadCSVAsync(t *testing.T) {
	c, store := newTestClient(t, false)

	task, err := c.UploadCSVAsync("rel.txt", strings.NewReader("entity1,relationship,entity2\nA,r,B\nB,r,C\n"))
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)

	require.NoError(t, task.Wait(10*time.Millisecond, 5*time.Second))
	require.NotNil(t, task.Result)
	assert.Equal(t, 2, task.Result.AddedCount)
	assert.Equal(t, 2, store.Stats().TotalRelationships)
}
