package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"branchsweep/internal/output"
)

func executorRepo() *fakeRepository {
	return &fakeRepository{
		defaultBranch: "main",
		branches:      branchesNamed("main", "old-1", "old-2", "old-3"),
	}
}

func TestExecute_DryRunNeverDeletes(t *testing.T) {
	repo := executorRepo()
	sink := &recordingWriter{}

	report, err := Execute(context.Background(), repo, true, []string{"old-1", "old-2"}, sink)

	require.NoError(t, err)
	require.Empty(t, repo.deleteCalls)
	require.Equal(t, []string{"old-1", "old-2"}, repo.getCalls)
	require.True(t, report.DryRun)
	require.Len(t, report.Deleted, 2)
	require.Equal(t, []string{output.EventBranchDeleted, output.EventBranchDeleted}, sink.types())
	for _, e := range sink.events {
		require.True(t, e.Deletion.DryRun)
	}
}

func TestExecute_LiveDeletesInOrder(t *testing.T) {
	repo := executorRepo()
	sink := &recordingWriter{}

	report, err := Execute(context.Background(), repo, false, []string{"old-3", "old-1", "old-2"}, sink)

	require.NoError(t, err)
	require.Equal(t, []string{"old-3", "old-1", "old-2"}, repo.deleteCalls)
	require.Len(t, report.Deleted, 3)
	require.Equal(t, "old-3", report.Deleted[0].Name)
	require.False(t, sink.events[0].Deletion.DryRun)
	require.Equal(t, "old-3", sink.events[0].Deletion.Branch)
}

func TestExecute_EmptyCandidates(t *testing.T) {
	repo := executorRepo()
	sink := &recordingWriter{}

	report, err := Execute(context.Background(), repo, false, nil, sink)

	require.NoError(t, err)
	require.Empty(t, report.Deleted)
	require.Empty(t, repo.getCalls)
	require.Empty(t, repo.deleteCalls)
	require.Equal(t, []string{output.EventNothingToDelete}, sink.types())
}

func TestExecute_AbortsOnFirstFailure(t *testing.T) {
	repo := executorRepo()
	boom := errors.New("502 bad gateway")
	repo.deleteErrs = map[string]error{"old-2": boom}
	sink := &recordingWriter{}

	report, err := Execute(context.Background(), repo, false, []string{"old-1", "old-2", "old-3"}, sink)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrTransientAPI)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "delete branch old-2")

	require.Equal(t, []string{"old-1", "old-2"}, repo.deleteCalls)
	require.Len(t, report.Deleted, 1)
	require.Len(t, sink.events, 1)
}

func TestExecute_LookupFailureAborts(t *testing.T) {
	repo := executorRepo()

	_, err := Execute(context.Background(), repo, false, []string{"missing", "old-1"}, nil)

	require.ErrorIs(t, err, ErrTransientAPI)
	require.Empty(t, repo.deleteCalls)
}

func TestExecute_CanceledContext(t *testing.T) {
	repo := executorRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, repo, false, []string{"old-1"}, nil)

	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, repo.getCalls)
}
