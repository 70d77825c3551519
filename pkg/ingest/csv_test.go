package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

func TestReadCSV(t *testing.T) {
	input := "entity1,relationship,entity2\n" +
		"Laptop, belongs_to ,Electronics\n" +
		"Electronics,manages,Amazon\n"

	res, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Triples, 2)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, graph.Triple{Entity1: "Laptop", Relationship: "belongs_to", Entity2: "Electronics"}, res.Triples[0])
}

func TestReadCSVColumnOrderAndExtras(t *testing.T) {
	input := "note,Entity2,entity1,relationship\n" +
		"x,B,A,rel\n"

	res, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Triples, 1)
	assert.Equal(t, graph.Triple{Entity1: "A", Relationship: "rel", Entity2: "B"}, res.Triples[0])
}

func TestReadCSVSkipsShortRows(t *testing.T) {
	input := "entity1,relationship,entity2\n" +
		"A,r\n" +
		"C,s,D\n"

	res, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Triples, 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Line)
	assert.Equal(t, "C", res.Triples[0].Entity1)
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("source,target\nA,B\n"))
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "CSV must contain columns: entity1, relationship, entity2")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "CSV file is empty", pe.Error())
}

func TestReadCSVEmptyCellsPassThrough(t *testing.T) {
	// Empty values are left for the graph to reject per row.
	res, err := ReadCSV(strings.NewReader("entity1,relationship,entity2\nA,,B\n"))
	require.NoError(t, err)
	require.Len(t, res.Triples, 1)

	g := graph.New(graph.DefaultOptions())
	batch := g.AddRelationshipsBatch(res.Triples)
	assert.False(t, batch.Success())
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 1, batch.Errors[0].Row)
}
