package releasenote

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"reltool/internal/taskref"
)

// entryHeader opens the release-notes section of a pull request description.
const entryHeader = "## Release Notes Entry"

// EntryFromDescription returns the release-notes line of a pull request.
//
// The description must start with the entry header; the next line is the
// entry. A blank line or a quoted placeholder ("> describe the change")
// means the pull request has no entry. When the head branch names a task the
// entry links it.
func EntryFromDescription(description, branch string, refs taskref.Parser) (string, bool) {
	lines := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return "", false
	}
	header, entry := lines[0], lines[1]
	if !strings.HasPrefix(header, entryHeader) || strings.HasPrefix(entry, ">") {
		return "", false
	}
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", false
	}

	msg := ":white_small_square: " + entry
	if id, ok := refs.FromBranch(branch); ok {
		msg += fmt.Sprintf(" (<%s|ClickUp>)", refs.Link(id))
	}
	return msg, true
}

// PRNotes formats the pull-request based notes as Slack mrkdwn:
// "*v<version> <variant>* :<emoji>:" followed by one entry per line.
func PRNotes(version, variant, emoji string, entries []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*v%s %s* :%s:\n", version, variant, emoji)
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return b.String()
}

// ReleaseWindow returns the start and end of the latest release cycle:
// the second most recent and most recent of the given release dates.
func ReleaseWindow(dates []time.Time) (start, end time.Time, err error) {
	if len(dates) < 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("need at least two release dates, have %d", len(dates))
	}
	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })
	return sorted[1], sorted[0], nil
}
