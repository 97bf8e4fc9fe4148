package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reltool/internal/testutil"
)

func TestMergedBetween(t *testing.T) {
	start := time.Date(2024, 4, 18, 9, 30, 0, 0, time.UTC)
	end := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	runner := testutil.NewFakeRunner().On(
		`gh pr list --state merged --search "is:closed merged:2024-04-18T09:30:00Z..2024-05-02T10:00:00Z" --json body,number,baseRefName,headRefName --limit 50`,
		`[{"number":12,"body":"## Release Notes Entry\nNew stickers","baseRefName":"dev","headRefName":"CU-a1_stickers"}]`)

	prs, err := New(runner, 50).MergedBetween(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, []PullRequest{{
		Number:      12,
		Body:        "## Release Notes Entry\nNew stickers",
		BaseRefName: "dev",
		HeadRefName: "CU-a1_stickers",
	}}, prs)
}

func TestMergedBetween_BadJSON(t *testing.T) {
	runner := testutil.NewFakeRunner().On(
		`gh pr list --state merged --search "is:closed merged:0001-01-01T00:00:00Z..0001-01-01T00:00:00Z" --json body,number,baseRefName,headRefName`,
		"not json")

	_, err := New(runner, 0).MergedBetween(context.Background(), time.Time{}, time.Time{})
	require.ErrorContains(t, err, "invalid gh output")
}

func TestRootedAt(t *testing.T) {
	prs := []PullRequest{
		{Number: 1, HeadRefName: "A", BaseRefName: "dev"},
		{Number: 2, HeadRefName: "B", BaseRefName: "A"},
		{Number: 3, HeadRefName: "C", BaseRefName: "B"},
		{Number: 4, HeadRefName: "hotfix", BaseRefName: "main"},
		{Number: 5, HeadRefName: "orphan", BaseRefName: "gone"},
		{Number: 6, HeadRefName: "X", BaseRefName: "Y"},
		{Number: 7, HeadRefName: "Y", BaseRefName: "X"},
	}

	var numbers []int
	for _, pr := range RootedAt(prs, "dev") {
		numbers = append(numbers, pr.Number)
	}
	require.Equal(t, []int{1, 2, 3}, numbers)
}
