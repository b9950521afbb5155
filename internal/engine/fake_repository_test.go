package engine

import (
	"context"
	"fmt"

	"branchsweep/internal/data/models"
	"branchsweep/internal/output"
)

type fakeRepository struct {
	defaultBranch string
	branches      []models.Branch
	pulls         []models.PullRequest

	defaultErr  error
	branchesErr error
	pullsErr    error
	// deleteErrs fails DeleteRef for the named branch.
	deleteErrs map[string]error

	getCalls    []string
	deleteCalls []string
}

func (f *fakeRepository) ListBranches(context.Context) ([]models.Branch, error) {
	if f.branchesErr != nil {
		return nil, f.branchesErr
	}
	return f.branches, nil
}

func (f *fakeRepository) ListPullRequests(context.Context) ([]models.PullRequest, error) {
	if f.pullsErr != nil {
		return nil, f.pullsErr
	}
	return f.pulls, nil
}

func (f *fakeRepository) DefaultBranchName(context.Context) (string, error) {
	if f.defaultErr != nil {
		return "", f.defaultErr
	}
	return f.defaultBranch, nil
}

func (f *fakeRepository) DeleteRef(_ context.Context, branch string) error {
	f.deleteCalls = append(f.deleteCalls, branch)
	return f.deleteErrs[branch]
}

func (f *fakeRepository) GetBranch(_ context.Context, branch string) (models.Branch, error) {
	f.getCalls = append(f.getCalls, branch)
	for _, b := range f.branches {
		if b.Name == branch {
			return b, nil
		}
	}
	return models.Branch{}, fmt.Errorf("branch %q not found", branch)
}

type recordingWriter struct {
	events []output.Event
}

func (w *recordingWriter) Write(e output.Event) error {
	w.events = append(w.events, e)
	return nil
}

func (w *recordingWriter) types() []string {
	out := make([]string, 0, len(w.events))
	for _, e := range w.events {
		out = append(out, e.Type)
	}
	return out
}
