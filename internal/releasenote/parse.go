// Package releasenote assembles release notes from commit annotations and
// tracker metadata.
//
// Developers reference tasks in commit messages as #<task-id>, optionally
// followed by a note for the release announcement in braces:
//
//	Fix crash when saving collage #86a1b2 { Saving large collages no longer crashes }
//
// Every referenced task becomes one entry of the notes; the brace notes
// become its bullet points.
package releasenote

import (
	"regexp"
	"strings"

	"reltool/internal/git"
)

var annotationRe = regexp.MustCompile(`#(\w+)(?:\s*\{\s*([^}]*)\s*\})?`)

// DevMessage is one developer note attached to a task.
type DevMessage struct {
	Text string

	// CommitHash is empty when the note was parsed from plain text.
	CommitHash string
}

// TaskNotes groups the notes referencing one task.
type TaskNotes struct {
	TaskID   string
	Messages []DevMessage
}

// ParseLog extracts task references and notes from free text.
// Tasks are returned in order of first reference.
func ParseLog(text string) []TaskNotes {
	var c collector
	c.scan(text, "")
	return c.notes
}

// ParseCommits extracts task references and notes from each commit message,
// recording the commit hash on every note.
func ParseCommits(commits []git.Commit) []TaskNotes {
	var c collector
	for _, commit := range commits {
		c.scan(commit.Message, commit.Hash)
	}
	return c.notes
}

type collector struct {
	notes []TaskNotes
	index map[string]int
}

func (c *collector) scan(text, hash string) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	for _, m := range annotationRe.FindAllStringSubmatch(text, -1) {
		id := m[1]
		i, ok := c.index[id]
		if !ok {
			i = len(c.notes)
			c.index[id] = i
			c.notes = append(c.notes, TaskNotes{TaskID: id})
		}
		if msg := strings.TrimSpace(m[2]); msg != "" {
			c.notes[i].Messages = append(c.notes[i].Messages, DevMessage{Text: msg, CommitHash: hash})
		}
	}
}
