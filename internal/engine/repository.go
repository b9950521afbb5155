package engine

import (
	"context"
	"slices"

	"branchsweep/internal/data/models"
)

// Repository is the remote capability a sweep runs against.
//
// Listings are expected to be stable snapshots for the duration of a run:
// repeated calls return the same data.
type Repository interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
	ListPullRequests(ctx context.Context) ([]models.PullRequest, error)
	DefaultBranchName(ctx context.Context) (string, error)
	DeleteRef(ctx context.Context, branch string) error
	GetBranch(ctx context.Context, branch string) (models.Branch, error)
}

// BranchSet is an unordered set of branch names.
type BranchSet map[string]struct{}

func NewBranchSet(names ...string) BranchSet {
	s := make(BranchSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s BranchSet) Add(name string) {
	s[name] = struct{}{}
}

func (s BranchSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s BranchSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s BranchSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
