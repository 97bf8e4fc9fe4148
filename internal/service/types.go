package service

// Task represents a single tracker task.
type Task struct {
	ID     string
	Name   string
	URL    string
	Status string
}
