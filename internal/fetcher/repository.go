package fetcher

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"branchsweep/internal/data/models"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
)

const (
	repositoryKey   = "repository"
	pullRequestsKey = "pulls"
)

// Repository returns the repository metadata. A 404 here means the repository
// does not exist or the token cannot see it.
func (f *Fetcher) Repository(ctx context.Context) (*github.Repository, error) {
	val, err := f.fetchOnce(ctx, repositoryKey, func(ctx context.Context) (any, error) {
		if err := f.budget.Acquire(ctx); err != nil {
			return nil, err
		}
		repo, resp, err := f.client.Client.Repositories.Get(ctx, f.owner, f.name)
		if resp != nil {
			f.budget.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return nil, err
		}
		return repo, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*github.Repository), nil
}

func (f *Fetcher) DefaultBranchName(ctx context.Context) (string, error) {
	repo, err := f.Repository(ctx)
	if err != nil {
		return "", err
	}
	name := repo.GetDefaultBranch()
	if name == "" {
		return "", fmt.Errorf("repository %s reports no default branch", f.FullName())
	}
	return name, nil
}

// ListPullRequests returns pull requests in the configured state.
func (f *Fetcher) ListPullRequests(ctx context.Context) ([]models.PullRequest, error) {
	val, err := f.fetchOnce(ctx, pullRequestsKey+":"+f.prState, f.listPullRequests)
	if err != nil {
		return nil, err
	}
	return slices.Clone(val.([]models.PullRequest)), nil
}

func (f *Fetcher) listPullRequests(ctx context.Context) (any, error) {
	var out []models.PullRequest
	opts := &github.PullRequestListOptions{
		State:       f.prState,
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}
	for {
		if err := f.budget.Acquire(ctx); err != nil {
			return nil, err
		}
		page, resp, err := f.client.Client.PullRequests.List(ctx, f.owner, f.name, opts)
		if resp != nil {
			f.budget.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return nil, err
		}
		for _, pr := range page {
			out = append(out, models.PullRequest{
				Number: pr.GetNumber(),
				Base:   pr.GetBase().GetRef(),
				Head:   pr.GetHead().GetRef(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	f.logger.Debug("listed pull requests", zap.String("repo", f.FullName()), zap.String("state", f.prState), zap.Int("count", len(out)))
	return out, nil
}

// DeleteRef deletes refs/heads/<branch>.
func (f *Fetcher) DeleteRef(ctx context.Context, branch string) error {
	branch = strings.TrimPrefix(branch, "refs/heads/")
	if branch == "" {
		return fmt.Errorf("delete ref: empty branch name")
	}
	if err := f.budget.Acquire(ctx); err != nil {
		return err
	}
	resp, err := f.client.Client.Git.DeleteRef(ctx, f.owner, f.name, "heads/"+branch)
	if resp != nil {
		f.budget.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return err
	}
	f.logger.Info("deleted branch", zap.String("repo", f.FullName()), zap.String("branch", branch))
	return nil
}
