package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektorgraph/internal/config"
	"github.com/sanonone/kektorgraph/internal/server"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

func startServer(t *testing.T) (string, *graph.Store) {
	t.Helper()
	store := graph.New(graph.DefaultOptions())
	store.Seed()

	srv, err := server.NewServer(store, config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL, store
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	url, _ := startServer(t)

	out, err := run(t, "--server", url, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entities:      11")
	assert.Contains(t, out, "Relationships: 12")
	assert.Contains(t, out, "belongs_to 3")
}

func TestNeighborsCommand(t *testing.T) {
	url, _ := startServer(t)

	out, err := run(t, "--server", url, "neighbors", "amazon", "-d", "out")
	require.NoError(t, err)
	assert.Contains(t, out, "Neighbors of Amazon (out)")
	assert.Contains(t, out, "Amazon --[sells]--> Books")
	assert.NotContains(t, out, "Seller1")

	_, err = run(t, "--server", url, "neighbors", "Mars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Entity 'Mars' not found in graph")
}

func TestPathsCommand(t *testing.T) {
	url, _ := startServer(t)

	out, err := run(t, "--server", url, "paths", "Laptop", "Amazon")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Laptop --[reviewed_by]--> Customer1 --[purchases_from]--> Amazon")
	assert.Contains(t, out, "2. Laptop --[belongs_to]--> Electronics --[manages]--> Amazon")

	out, err = run(t, "--server", url, "paths", "iPhone", "Books", "--shortest")
	require.NoError(t, err)
	assert.Contains(t, out, "4 hops")

	out, err = run(t, "--server", url, "paths", "Books", "Laptop")
	require.NoError(t, err)
	assert.Contains(t, out, "No path found between Books and Laptop")
}

func TestSearchCommand(t *testing.T) {
	url, _ := startServer(t)

	out, err := run(t, "--server", url, "search", "sells_on")
	require.NoError(t, err)
	assert.Contains(t, out, `Relationships labeled "sells_on": 1`)
	assert.Contains(t, out, "Seller1 --[sells_on]--> Amazon")
}

func TestImportCommand(t *testing.T) {
	url, store := startServer(t)

	path := filepath.Join(t.TempDir(), "rel.csv")
	require.NoError(t, os.WriteFile(path, []byte("entity1,relationship,entity2\nKindle,belongs_to,Electronics\nX,,Y\n"), 0o644))

	out, err := run(t, "--server", url, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 of 2 relationships")
	assert.Contains(t, out, "row 2: All fields (Entity 1, Relationship, Entity 2) are required")
	assert.Equal(t, 13, store.Stats().TotalRelationships)

	out, err = run(t, "--server", url, "import", "--async", path)
	require.NoError(t, err)
	assert.Contains(t, out, "import task ")
	assert.Contains(t, out, "Imported 1 of 2 relationships")

	_, err = run(t, "--server", url, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	url, _ := startServer(t)

	path := filepath.Join(t.TempDir(), "graph.json")
	_, err := run(t, "--server", url, "export", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var exp graph.Export
	require.NoError(t, json.Unmarshal(data, &exp))
	assert.Len(t, exp.Nodes, 11)
	assert.Len(t, exp.Edges, 12)
}

func TestServeRejectsBadConfig(t *testing.T) {
	_, err := run(t, "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read configuration file")
}
