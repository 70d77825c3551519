package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sanonone/kektorgraph/pkg/graph"
	"github.com/sanonone/kektorgraph/pkg/ingest"
	"github.com/sanonone/kektorgraph/pkg/metrics"
)

// allowedUploadExtensions are the file name suffixes accepted by upload-csv.
var allowedUploadExtensions = []string{".csv", ".txt"}

// registerHTTPHandlers sets up the REST routes.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/graph/add-relationship", s.handleAddRelationship)
	mux.HandleFunc("POST /api/graph/add-relationships", s.handleAddRelationships)
	mux.HandleFunc("POST /api/graph/upload-csv", s.handleUploadCSV)
	mux.HandleFunc("POST /api/graph/remove-relationship", s.handleRemoveRelationship)
	mux.HandleFunc("POST /api/graph/clear", s.handleClear)
	mux.HandleFunc("POST /api/graph/import", s.handleImport)

	mux.HandleFunc("POST /api/graph/query-neighbors", s.handleQueryNeighbors)
	mux.HandleFunc("POST /api/graph/find-path", s.handleFindPath)
	mux.HandleFunc("POST /api/graph/shortest-path", s.handleShortestPath)
	mux.HandleFunc("POST /api/graph/search-relationship", s.handleSearchRelationship)
	mux.HandleFunc("GET /api/graph/data", s.handleGraphData)
	mux.HandleFunc("GET /api/graph/stats", s.handleStats)
	mux.HandleFunc("GET /api/graph/export", s.handleExport)

	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeHTTPError(w, http.StatusNotFound, "Endpoint not found")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Mutations ---

func (s *Server) handleAddRelationship(w http.ResponseWriter, r *http.Request) {
	var req RelationshipRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.Graph.AddRelationship(req.Entity1, req.Relationship, req.Entity2)
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	metrics.ObserveGraph(s.Graph)
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleAddRelationships(w http.ResponseWriter, r *http.Request) {
	var req BatchRelationshipRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res := s.Graph.AddRelationshipsBatch(req.Relationships)
	s.recordBatch(res, 0)
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeHTTPError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d byte upload limit", s.cfg.Server.MaxUploadBytes))
			return
		}
		s.writeHTTPError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "No file selected")
		return
	}
	if !allowedUpload(header.Filename) {
		s.writeHTTPError(w, http.StatusBadRequest, "File must be CSV or TXT format")
		return
	}

	parsed, err := ingest.ReadCSV(file)
	if err != nil {
		var pe *ingest.ParseError
		if errors.As(err, &pe) {
			s.writeHTTPError(w, http.StatusBadRequest, pe.Err.Error())
			return
		}
		s.writeHTTPError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	skipped := make([]SkippedLine, len(parsed.Skipped))
	for i, pe := range parsed.Skipped {
		skipped[i] = SkippedLine{Line: pe.Line, Error: pe.Err.Error()}
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		task := s.taskManager.Go(func(t *Task) {
			t.SetProgress(fmt.Sprintf("importing %d rows from %s", len(parsed.Triples), header.Filename))
			res := s.Graph.AddRelationshipsBatch(parsed.Triples)
			s.recordBatch(res, len(skipped))
			t.Complete(res)
			s.logger.Info("CSV import completed",
				"task_id", t.ID(),
				"file", header.Filename,
				"added", res.AddedCount,
				"total", res.TotalCount,
			)
		})
		s.writeHTTPResponse(w, http.StatusAccepted, TaskAccepted{Status: graph.StatusSuccess, TaskID: task.ID()})
		return
	}

	res := s.Graph.AddRelationshipsBatch(parsed.Triples)
	s.recordBatch(res, len(skipped))
	s.writeHTTPResponse(w, http.StatusOK, CSVUploadResponse{BatchResult: res, SkippedLines: skipped})
}

func (s *Server) handleRemoveRelationship(w http.ResponseWriter, r *http.Request) {
	var req RemoveRelationshipRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.Graph.RemoveRelationship(strings.TrimSpace(req.Entity1), strings.TrimSpace(req.Entity2))
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	metrics.ObserveGraph(s.Graph)
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.Graph.Clear()
	stats := s.Graph.Stats()
	metrics.ObserveGraph(s.Graph)
	s.logger.Info("Graph cleared")
	s.writeHTTPResponse(w, http.StatusOK, ClearResponse{
		Status:     graph.StatusSuccess,
		Message:    "Graph cleared",
		GraphStats: stats,
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeBodyError(w, err)
		return
	}

	res, err := s.Graph.ImportJSON(data)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.recordBatch(res, 0)
	s.writeHTTPResponse(w, http.StatusOK, res)
}

// --- Queries ---

func (s *Server) handleQueryNeighbors(w http.ResponseWriter, r *http.Request) {
	var req NeighborsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.Graph.QueryNeighbors(req.Entity, req.Direction)
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	res, err := s.Graph.FindPaths(req.Source, req.Target)
	metrics.PathSearchDuration.WithLabelValues("all").Observe(time.Since(start).Seconds())
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	metrics.PathsFound.Observe(float64(res.PathsFound))
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	res, err := s.Graph.ShortestPath(req.Source, req.Target)
	metrics.PathSearchDuration.WithLabelValues("shortest").Observe(time.Since(start).Seconds())
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, res)
}

func (s *Server) handleSearchRelationship(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, s.Graph.SearchByRelationship(req.Relationship))
}

func (s *Server) handleGraphData(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, s.Graph.GetGraphData())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, StatsResponse{
		Status: graph.StatusSuccess,
		Stats:  s.Graph.Stats(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Graph.ExportJSON()
	if err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=graph.json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.taskManager.GetTask(r.PathValue("id"))
	if !ok {
		s.writeHTTPError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, task.Snapshot())
}

// --- Helpers ---

// recordBatch publishes the outcome of a bulk import to the metrics.
func (s *Server) recordBatch(res graph.BatchResult, skipped int) {
	metrics.ImportedRows.WithLabelValues("added").Add(float64(res.AddedCount))
	metrics.ImportedRows.WithLabelValues("failed").Add(float64(len(res.Errors)))
	metrics.ImportedRows.WithLabelValues("skipped").Add(float64(skipped))
	metrics.ObserveGraph(s.Graph)
}

// decodeJSON reads the request body into dst. On failure it writes the error
// response and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeBodyError(w, err)
		return false
	}
	return true
}

func (s *Server) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeHTTPError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	s.writeHTTPError(w, http.StatusBadRequest, "Invalid JSON body")
}

// statusForError maps graph errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case graph.IsValidation(err):
		return http.StatusBadRequest
	case graph.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeGraphError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("graph operation failed", "error", err)
		s.writeHTTPError(w, code, fmt.Sprintf("Server error: %v", err))
		return
	}
	s.writeHTTPError(w, code, err.Error())
}

func allowedUpload(filename string) bool {
	return slices.Contains(allowedUploadExtensions, strings.ToLower(filepath.Ext(filename)))
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, ErrorResponse{Status: "error", Message: message})
}
