// Package taskref parses ClickUp task references as they appear in CLI
// arguments, branch names and bot comments.
package taskref

import (
	"regexp"
	"strings"
)

// botCommentPrefix starts the comment the ClickUp GitHub app leaves on
// linked pull requests, e.g. "Link to `CU-12ab`, `CU-56cd`".
const botCommentPrefix = "Link to "

// Parser recognises references for one ClickUp workspace.
type Parser struct {
	// Prefix marks task ids in branch names and comments, e.g. "CU-".
	Prefix string

	// AppURL is the task link base, e.g. "https://app.clickup.com/t/".
	AppURL string
}

// Parse normalises a task reference to a bare task id.
//
// Accepted forms:
//  1. <prefix><id> (CU-86a1b2) → 86a1b2
//  2. <app url><id> (https://app.clickup.com/t/86a1b2) → 86a1b2
//  3. anything else is returned unchanged
func (p Parser) Parse(ref string) string {
	if p.Prefix != "" && strings.HasPrefix(ref, p.Prefix) {
		return ref[len(p.Prefix):]
	}
	if p.AppURL != "" && strings.HasPrefix(ref, p.AppURL) {
		parts := strings.Split(ref, "/")
		return parts[len(parts)-1]
	}
	return ref
}

// ParseAll parses every reference and drops duplicates, keeping the order
// of first appearance.
func (p Parser) ParseAll(refs []string) []string {
	return Unique(mapRefs(refs, p.Parse))
}

// FromBotComment extracts the prefixed task ids from a "Link to ..." comment.
// Comments with any other opening return nil.
func (p Parser) FromBotComment(comment string) []string {
	if !strings.HasPrefix(comment, botCommentPrefix) {
		return nil
	}
	re := regexp.MustCompile(regexp.QuoteMeta(p.Prefix) + `\w+`)
	return re.FindAllString(comment, -1)
}

// FromBranch returns the task id encoded in a branch name such as
// "CU-86a1b2_fix-crash" or "CU-86a1b2-fix-crash".
func (p Parser) FromBranch(branch string) (string, bool) {
	if p.Prefix == "" || !strings.HasPrefix(branch, p.Prefix) {
		return "", false
	}
	parts := regexp.MustCompile(`[-_]`).Split(branch, -1)
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Link returns the ClickUp web URL of a task id.
func (p Parser) Link(id string) string {
	return p.AppURL + id
}

// Unique drops duplicate ids, keeping the order of first appearance.
func Unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func mapRefs(refs []string, f func(string) string) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = f(r)
	}
	return out
}
