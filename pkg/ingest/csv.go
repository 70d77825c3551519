// Package ingest turns bulk input into graph triples.
//
// CSV input must carry a header row naming the columns entity1, relationship
// and entity2, in any order. Extra columns are ignored. Rows that cannot be
// read are skipped and reported, they never fail the whole import.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// RequiredColumns are the header names a CSV import must provide.
var RequiredColumns = []string{"entity1", "relationship", "entity2"}

// ParseError reports malformed bulk input. Line is 0 when the error concerns
// the document as a whole.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CSVResult holds the parsed triples and the rows that were skipped.
type CSVResult struct {
	Triples []graph.Triple
	Skipped []*ParseError
}

// ReadCSV parses r. It fails only when the header is unreadable or incomplete.
func ReadCSV(r io.Reader) (*CSVResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: errors.New("CSV file is empty")}
		}
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("invalid CSV format: %w", err)}
	}

	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	res := &CSVResult{Triples: []graph.Triple{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Skipped = append(res.Skipped, &ParseError{Line: pe.Line, Err: pe.Err})
				continue
			}
			res.Skipped = append(res.Skipped, &ParseError{Err: err})
			break
		}
		line, _ := reader.FieldPos(0)

		if isBlank(record) {
			continue
		}
		if len(record) <= cols.max {
			res.Skipped = append(res.Skipped, &ParseError{
				Line: line,
				Err:  fmt.Errorf("expected at least %d fields, got %d", cols.max+1, len(record)),
			})
			continue
		}

		res.Triples = append(res.Triples, graph.Triple{
			Entity1:      strings.TrimSpace(record[cols.entity1]),
			Relationship: strings.TrimSpace(record[cols.relationship]),
			Entity2:      strings.TrimSpace(record[cols.entity2]),
		})
	}

	return res, nil
}

type columns struct {
	entity1, relationship, entity2, max int
}

func columnIndexes(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			return columns{}, &ParseError{
				Line: 1,
				Err:  fmt.Errorf("CSV must contain columns: %s", strings.Join(RequiredColumns, ", ")),
			}
		}
	}

	cols := columns{
		entity1:      idx["entity1"],
		relationship: idx["relationship"],
		entity2:      idx["entity2"],
	}
	cols.max = max(cols.entity1, cols.relationship, cols.entity2)
	return cols, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
