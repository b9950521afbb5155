package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"branchsweep/internal/data/models"
)

var sweepNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return sweepNow.Add(-time.Duration(d) * 24 * time.Hour)
}

func TestIdleCutoff(t *testing.T) {
	local := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 10, 16, 14, 0, 0, 0, local)

	got := IdleCutoff(now, 7)
	require.Equal(t, time.UTC, got.Location())
	require.True(t, got.Equal(time.Date(2026, 10, 9, 12, 0, 0, 0, time.UTC)))

	require.True(t, IdleCutoff(now, 0).Equal(now))
}

func TestIdleCutoff_LargeValuesStayInThePast(t *testing.T) {
	for _, days := range []int{106_752, 200_000, 365_000_000} {
		got := IdleCutoff(sweepNow, days)
		require.Truef(t, got.Before(sweepNow), "cutoff for %d days is %s, not before now", days, got)
		require.Truef(t, got.Before(IdleCutoff(sweepNow, 106_751)), "cutoff for %d days not monotonic", days)
	}

	require.True(t, IdleCutoff(sweepNow, 200_000).Equal(sweepNow.AddDate(0, 0, -200_000)))
}

func TestSelectForDeletion_CutoffBoundary(t *testing.T) {
	cutoff := IdleCutoff(sweepNow, 7)
	branches := []models.Branch{
		{Name: "at-cutoff", LastCommit: cutoff},
		{Name: "just-before", LastCommit: cutoff.Add(-time.Second)},
		{Name: "just-after", LastCommit: cutoff.Add(time.Second)},
	}

	candidates, notExempt := SelectForDeletion(branches, BranchSet{}, cutoff)

	require.Equal(t, []string{"just-before"}, candidates)
	require.Equal(t, 3, notExempt)
}

func TestSelectForDeletion_IsPartition(t *testing.T) {
	branches := []models.Branch{
		{Name: "main", LastCommit: daysAgo(100)},
		{Name: "a", LastCommit: daysAgo(30)},
		{Name: "b", LastCommit: daysAgo(1)},
		{Name: "c", LastCommit: daysAgo(9)},
		{Name: "d", LastCommit: daysAgo(50), Protected: true},
	}
	exempt := NewBranchSet("main", "d", "not-a-branch")

	candidates, notExempt := SelectForDeletion(branches, exempt, IdleCutoff(sweepNow, 7))

	exemptInListing := 0
	for _, b := range branches {
		if exempt.Has(b.Name) {
			exemptInListing++
		}
	}
	require.Equal(t, len(branches)-exemptInListing, notExempt)
	require.Equal(t, []string{"a", "c"}, candidates)
	for _, c := range candidates {
		require.False(t, exempt.Has(c))
	}
}

func TestSelectForDeletion_KeepsListingOrder(t *testing.T) {
	branches := []models.Branch{
		{Name: "z", LastCommit: daysAgo(10)},
		{Name: "a", LastCommit: daysAgo(20)},
		{Name: "m", LastCommit: daysAgo(15)},
	}

	candidates, _ := SelectForDeletion(branches, nil, IdleCutoff(sweepNow, 1))
	require.Equal(t, []string{"z", "a", "m"}, candidates)
}
