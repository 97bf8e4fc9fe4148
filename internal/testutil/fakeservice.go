// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"reltool/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks map[string]service.Task

	// Requested records every id passed to GetTask.
	Requested []string

	// Error injection for testing
	GetTaskErr    map[string]error // taskID -> error
	UpdateErr     map[string]error // taskID -> error
	UpdateAllErr  error
	GetTaskAllErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:      make(map[string]service.Task),
		GetTaskErr: make(map[string]error),
		UpdateErr:  make(map[string]error),
	}
}

// AddTask adds a task with status "open" and a ClickUp-style URL.
func (f *FakeService) AddTask(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id] = service.Task{
		ID:     id,
		Name:   name,
		URL:    "https://app.clickup.com/t/" + id,
		Status: "open",
	}
}

// Task returns a stored task.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	f.mu.Lock()
	f.Requested = append(f.Requested, id)
	f.mu.Unlock()

	if f.GetTaskAllErr != nil {
		return service.Task{}, f.GetTaskAllErr
	}
	if err, ok := f.GetTaskErr[id]; ok && err != nil {
		return service.Task{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, service.ErrNotFound
	}
	return t, nil
}

// UpdateTaskStatus implements service.Service.
func (f *FakeService) UpdateTaskStatus(ctx context.Context, id, status string) error {
	if f.UpdateAllErr != nil {
		return f.UpdateAllErr
	}
	if err, ok := f.UpdateErr[id]; ok && err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return service.ErrNotFound
	}
	t.Status = status
	f.tasks[id] = t
	return nil
}
