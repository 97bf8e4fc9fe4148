// Package service defines the backend-agnostic interface for task tracker operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the tracker has no task with the given id.
	ErrNotFound = errors.New("task not found")

	// ErrUnauthorized is returned when the tracker rejects the credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoCredentials is returned when neither a token nor a login is available.
	ErrNoCredentials = errors.New("no ClickUp credentials")
)

// Service defines the interface for task tracker operations.
// All ClickUp API calls go through this interface.
// Commands never talk HTTP directly.
type Service interface {
	// GetTask fetches a task by id.
	// Returns ErrNotFound if the task does not exist or is not visible.
	GetTask(ctx context.Context, id string) (Task, error)

	// UpdateTaskStatus moves a task to the named status.
	UpdateTaskStatus(ctx context.Context, id, status string) error
}
