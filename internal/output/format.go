// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"reltool/internal/service"
)

// FormatTaskLink writes a task as a Markdown link: "[{NAME}]({URL})\n".
func FormatTaskLink(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "[%s](%s)\n", normalizeTitle(task.Name), task.URL)
}

// FormatIDs writes ids space separated on one line.
// Nothing is written for an empty slice.
func FormatIDs(w io.Writer, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintln(w, strings.Join(ids, " "))
}

// FormatIDLines writes one id per line.
func FormatIDLines(w io.Writer, ids []string) {
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}

// normalizeTitle normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
