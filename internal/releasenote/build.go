package releasenote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reltool/internal/logging"
	"reltool/internal/service"
)

// Release is the rendered content of one release announcement.
type Release struct {
	Version string
	Tasks   []Task
}

// Task is a tracker task with the developer notes that reference it.
type Task struct {
	ID       string
	Title    string
	URL      string
	Messages []Message
}

// Message is a developer note linked to the commit it came from.
type Message struct {
	Text       string
	CommitHash string
	CommitURL  string
}

// ShortHash returns the abbreviated commit hash shown in the notes.
func (m Message) ShortHash() string {
	if len(m.CommitHash) > 7 {
		return m.CommitHash[:7]
	}
	return m.CommitHash
}

// Builder resolves parsed notes against the task tracker.
type Builder struct {
	Tracker service.Service

	// Concurrency bounds parallel tracker requests. Values below 1 mean 1.
	Concurrency int

	// CommitURL links a commit hash. Nil leaves links empty.
	CommitURL func(hash string) string
}

// Build fetches every task in notes and returns the release in note order.
// Tasks the tracker does not know are skipped; "#123" also matches pull
// request numbers in merge commits. Any other tracker error aborts.
func (b Builder) Build(ctx context.Context, version string, notes []TaskNotes) (Release, error) {
	log := logging.FromContext(ctx)

	limit := b.Concurrency
	if limit < 1 {
		limit = 1
	}

	tasks := make([]*Task, len(notes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, n := range notes {
		g.Go(func() error {
			t, err := b.Tracker.GetTask(gctx, n.TaskID)
			if errors.Is(err, service.ErrNotFound) {
				log.Warn("skipping unknown task", zap.String("task", n.TaskID))
				return nil
			}
			if err != nil {
				return fmt.Errorf("task %s: %w", n.TaskID, err)
			}
			log.Debug("fetched task", zap.String("task", n.TaskID), zap.String("name", t.Name))
			tasks[i] = b.task(n, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Release{}, err
	}

	rel := Release{Version: version}
	for _, t := range tasks {
		if t != nil {
			rel.Tasks = append(rel.Tasks, *t)
		}
	}
	return rel, nil
}

func (b Builder) task(n TaskNotes, t service.Task) *Task {
	out := &Task{ID: n.TaskID, Title: t.Name, URL: t.URL}
	for _, m := range n.Messages {
		msg := Message{Text: m.Text, CommitHash: m.CommitHash}
		if b.CommitURL != nil && m.CommitHash != "" {
			msg.CommitURL = b.CommitURL(m.CommitHash)
		}
		out.Messages = append(out.Messages, msg)
	}
	return out
}
