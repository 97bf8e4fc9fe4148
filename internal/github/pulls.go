// Package github queries merged pull requests through the gh CLI.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"reltool/internal/shell"
)

// PullRequest is the subset of gh's JSON output used for release notes.
type PullRequest struct {
	Number      int    `json:"number"`
	Body        string `json:"body"`
	BaseRefName string `json:"baseRefName"`
	HeadRefName string `json:"headRefName"`
}

// Client runs gh in the current repository.
type Client struct {
	runner shell.Runner
	limit  int
}

// New creates a Client. limit caps the number of pull requests gh returns.
func New(runner shell.Runner, limit int) *Client {
	return &Client{runner: runner, limit: limit}
}

// MergedBetween lists pull requests merged in the (start, end) window.
func (c *Client) MergedBetween(ctx context.Context, start, end time.Time) ([]PullRequest, error) {
	search := fmt.Sprintf("is:closed merged:%s..%s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	args := []string{
		"pr", "list",
		"--state", "merged",
		"--search", search,
		"--json", "body,number,baseRefName,headRefName",
	}
	if c.limit > 0 {
		args = append(args, "--limit", strconv.Itoa(c.limit))
	}

	out, err := c.runner.Run(ctx, "gh", args...)
	if err != nil {
		return nil, err
	}
	var prs []PullRequest
	if err := json.Unmarshal([]byte(out), &prs); err != nil {
		return nil, fmt.Errorf("%w: invalid gh output: %v", shell.ErrUnexpectedOutput, err)
	}
	return prs, nil
}

// RootedAt keeps the pull requests whose base branch is root or was itself
// merged into root through a chain of other pull requests in prs
// (B -> A -> dev).
func RootedAt(prs []PullRequest, root string) []PullRequest {
	baseOf := make(map[string]string, len(prs))
	for _, pr := range prs {
		baseOf[pr.HeadRefName] = pr.BaseRefName
	}

	var out []PullRequest
	for _, pr := range prs {
		branch := pr.BaseRefName
		seen := map[string]bool{}
		for branch != root && !seen[branch] {
			seen[branch] = true
			next, ok := baseOf[branch]
			if !ok {
				break
			}
			branch = next
		}
		if branch == root {
			out = append(out, pr)
		}
	}
	return out
}
