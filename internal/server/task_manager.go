package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// TaskStatus defines the possible states of a task.
type TaskStatus string

const (
	TaskStatusStarted   TaskStatus = "started"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is a background import. Fields are read through Snapshot.
type Task struct {
	mu sync.RWMutex

	id        string
	status    TaskStatus
	progress  string
	err       string
	result    *graph.BatchResult
	createdAt time.Time
}

// TaskInfo is the JSON view of a Task.
type TaskInfo struct {
	ID              string             `json:"id"`
	Status          TaskStatus         `json:"status"`
	ProgressMessage string             `json:"progress_message,omitempty"`
	Error           string             `json:"error,omitempty"`
	Result          *graph.BatchResult `json:"result,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// TaskManager tracks asynchronous tasks.
type TaskManager struct {
	tasks map[string]*Task
	mu    sync.RWMutex
	wg    sync.WaitGroup
}

func NewTaskManager() *TaskManager {
	return &TaskManager{
		tasks: make(map[string]*Task),
	}
}

// NewTask creates a new task, registers it, and returns it.
func (tm *TaskManager) NewTask() *Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	task := &Task{
		id:        uuid.NewString(),
		status:    TaskStatusStarted,
		createdAt: time.Now().UTC(),
	}
	tm.tasks[task.id] = task
	return task
}

// Go creates a task and runs fn for it in a new goroutine. A panic in fn marks
// the task failed.
func (tm *TaskManager) Go(fn func(*Task)) *Task {
	task := tm.NewTask()
	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				task.SetError(fmt.Errorf("task panicked: %v", r))
			}
		}()
		task.SetStatus(TaskStatusRunning)
		fn(task)
	}()
	return task
}

// Wait blocks until every task started with Go has returned or ctx is done.
func (tm *TaskManager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetTask retrieves a task by its ID.
func (tm *TaskManager) GetTask(id string) (*Task, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	task, found := tm.tasks[id]
	return task, found
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) SetStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// SetError marks the task as failed and records the error message.
func (t *Task) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusFailed
	t.err = err.Error()
}

func (t *Task) SetProgress(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = message
}

// Complete stores the batch outcome and marks the task completed.
func (t *Task) Complete(res graph.BatchResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusCompleted
	t.result = &res
}

// Snapshot returns a consistent copy for serialization.
func (t *Task) Snapshot() TaskInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return TaskInfo{
		ID:              t.id,
		Status:          t.status,
		ProgressMessage: t.progress,
		Error:           t.err,
		Result:          t.result,
		CreatedAt:       t.createdAt,
	}
}
