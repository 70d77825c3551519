// Package client provides a Go client for the KektorGraph HTTP API.
//
// It covers every route of the service:
//   - Mutations (AddRelationship, AddRelationships, RemoveRelationship, Clear).
//   - Bulk loading (UploadCSV, UploadCSVAsync, Import) and task polling.
//   - Queries (QueryNeighbors, FindPaths, ShortestPath, SearchRelationship,
//     GraphData, Stats, Export).
//
// Results reuse the types of pkg/graph. Responses with status >= 400 are
// returned as *APIError.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// --- Custom Errors ---

// APIError represents an error returned by the API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// --- JSON Response Structs ---

type statsResponse struct {
	Status string      `json:"status"`
	Stats  graph.Stats `json:"stats"`
}

type taskAccepted struct {
	TaskID string `json:"task_id"`
}

// SkippedLine is a CSV line the server could not read.
type SkippedLine struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// CSVUploadResult is the response of a synchronous CSV upload.
type CSVUploadResult struct {
	graph.BatchResult
	SkippedLines []SkippedLine `json:"skipped_lines,omitempty"`
}

// Task represents an asynchronous import on the server.
type Task struct {
	ID              string             `json:"id"`
	Status          string             `json:"status"`
	ProgressMessage string             `json:"progress_message,omitempty"`
	Error           string             `json:"error,omitempty"`
	Result          *graph.BatchResult `json:"result,omitempty"`

	client *Client // Reference to the client for polling.
}

// --- Client ---

// Client talks to one KektorGraph server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for http://host:port.
func New(host string, port int) *Client {
	return NewFromURL(fmt.Sprintf("http://%s:%d", host, port))
}

// NewFromURL creates a client for a base URL such as "http://localhost:9091".
func NewFromURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// jsonRequest sends payload as JSON and returns the raw response body.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

// call runs a JSON request and decodes the response into out.
func (c *Client) call(method, endpoint string, payload, out any) error {
	respBody, err := c.jsonRequest(method, endpoint, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid JSON response for %s: %w", endpoint, err)
	}
	return nil
}

// Health checks the liveness endpoint.
func (c *Client) Health() error {
	_, err := c.jsonRequest(http.MethodGet, "/healthz", nil)
	return err
}

// --- Mutations ---

// AddRelationship adds or relabels the edge entity1 -> entity2.
func (c *Client) AddRelationship(entity1, relationship, entity2 string) (*graph.MutationResult, error) {
	payload := map[string]string{
		"entity1":      entity1,
		"relationship": relationship,
		"entity2":      entity2,
	}
	var res graph.MutationResult
	if err := c.call(http.MethodPost, "/api/graph/add-relationship", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddRelationships applies a batch of triples. Row failures are reported in the result.
func (c *Client) AddRelationships(triples []graph.Triple) (*graph.BatchResult, error) {
	payload := map[string]any{"relationships": triples}
	var res graph.BatchResult
	if err := c.call(http.MethodPost, "/api/graph/add-relationships", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RemoveRelationship deletes the edge entity1 -> entity2. Names must match exactly.
func (c *Client) RemoveRelationship(entity1, entity2 string) (*graph.MutationResult, error) {
	payload := map[string]string{"entity1": entity1, "entity2": entity2}
	var res graph.MutationResult
	if err := c.call(http.MethodPost, "/api/graph/remove-relationship", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Clear empties the graph and returns the (zero) stats.
func (c *Client) Clear() (*graph.Stats, error) {
	var res struct {
		GraphStats graph.Stats `json:"graph_stats"`
	}
	if err := c.call(http.MethodPost, "/api/graph/clear", nil, &res); err != nil {
		return nil, err
	}
	return &res.GraphStats, nil
}

// --- Bulk loading ---

// UploadCSV uploads a CSV document and waits for it to be applied.
func (c *Client) UploadCSV(filename string, r io.Reader) (*CSVUploadResult, error) {
	respBody, err := c.uploadRequest("/api/graph/upload-csv", filename, r)
	if err != nil {
		return nil, err
	}
	var res CSVUploadResult
	if err := json.Unmarshal(respBody, &res); err != nil {
		return nil, fmt.Errorf("invalid JSON response for UploadCSV: %w", err)
	}
	return &res, nil
}

// UploadCSVAsync uploads a CSV document and returns the import Task.
func (c *Client) UploadCSVAsync(filename string, r io.Reader) (*Task, error) {
	respBody, err := c.uploadRequest("/api/graph/upload-csv?async=true", filename, r)
	if err != nil {
		return nil, err
	}
	var accepted taskAccepted
	if err := json.Unmarshal(respBody, &accepted); err != nil {
		return nil, fmt.Errorf("invalid JSON response for UploadCSVAsync: %w", err)
	}
	return &Task{ID: accepted.TaskID, Status: "started", client: c}, nil
}

func (c *Client) uploadRequest(endpoint, filename string, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// Import replays a document produced by Export.
func (c *Client) Import(doc []byte) (*graph.BatchResult, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/graph/import", bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var res graph.BatchResult
	if err := json.Unmarshal(respBody, &res); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Import: %w", err)
	}
	return &res, nil
}

// --- Queries ---

// QueryNeighbors lists the edges around entity. direction is "in", "out" or "both".
func (c *Client) QueryNeighbors(entity, direction string) (*graph.NeighborsResult, error) {
	payload := map[string]string{"entity": entity, "direction": direction}
	var res graph.NeighborsResult
	if err := c.call(http.MethodPost, "/api/graph/query-neighbors", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FindPaths enumerates paths from source to target.
func (c *Client) FindPaths(source, target string) (*graph.PathsResult, error) {
	payload := map[string]string{"source": source, "target": target}
	var res graph.PathsResult
	if err := c.call(http.MethodPost, "/api/graph/find-path", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ShortestPath returns a fewest-edge path from source to target.
func (c *Client) ShortestPath(source, target string) (*graph.ShortestPathResult, error) {
	payload := map[string]string{"source": source, "target": target}
	var res graph.ShortestPathResult
	if err := c.call(http.MethodPost, "/api/graph/shortest-path", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchRelationship lists the edges carrying a label, ignoring case.
func (c *Client) SearchRelationship(relationship string) (*graph.SearchResult, error) {
	payload := map[string]string{"relationship": relationship}
	var res graph.SearchResult
	if err := c.call(http.MethodPost, "/api/graph/search-relationship", payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GraphData returns the visualization payload.
func (c *Client) GraphData() (*graph.GraphData, error) {
	var res graph.GraphData
	if err := c.call(http.MethodGet, "/api/graph/data", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stats returns the graph statistics.
func (c *Client) Stats() (*graph.Stats, error) {
	var res statsResponse
	if err := c.call(http.MethodGet, "/api/graph/stats", nil, &res); err != nil {
		return nil, err
	}
	return &res.Stats, nil
}

// Export downloads the graph as an indented JSON document.
func (c *Client) Export() ([]byte, error) {
	return c.jsonRequest(http.MethodGet, "/api/graph/export", nil)
}

// --- Tasks ---

// GetTaskStatus retrieves the status of an asynchronous import.
func (c *Client) GetTaskStatus(taskID string) (*Task, error) {
	var task Task
	if err := c.call(http.MethodGet, "/api/tasks/"+taskID, nil, &task); err != nil {
		return nil, err
	}
	task.client = c
	return &task, nil
}

// Refresh updates the task's status by querying the server.
func (t *Task) Refresh() error {
	if t.client == nil {
		return fmt.Errorf("client is not associated with the task")
	}
	updated, err := t.client.GetTaskStatus(t.ID)
	if err != nil {
		return err
	}
	t.Status = updated.Status
	t.ProgressMessage = updated.ProgressMessage
	t.Error = updated.Error
	t.Result = updated.Result
	return nil
}

// Wait blocks until the task is completed, checking its status at regular intervals.
func (t *Task) Wait(interval, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return fmt.Errorf("timeout exceeded while waiting for task %s", t.ID)
		case <-ticker.C:
			if err := t.Refresh(); err != nil {
				return err
			}
			switch t.Status {
			case "completed":
				return nil
			case "failed":
				return fmt.Errorf("task %s failed with error: %s", t.ID, t.Error)
			case "running", "started":
				// Continue waiting.
			default:
				return fmt.Errorf("unknown task status: %s", t.Status)
			}
		}
	}
}
