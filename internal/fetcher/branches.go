package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"branchsweep/internal/data/models"
	gh "branchsweep/internal/github"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
)

const (
	listPageSize = 100

	branchesKey = "branches"
)

// branchCommitDatesQuery lists head commit dates for every branch in one
// paginated query; REST branch listings only carry the head SHA.
const branchCommitDatesQuery = `query($owner: String!, $name: String!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    refs(refPrefix: "refs/heads/", first: 100, after: $cursor) {
      pageInfo { hasNextPage endCursor }
      nodes {
        name
        target {
          ... on Commit { committedDate }
        }
      }
    }
  }
}`

type branchCommitDatesData struct {
	Repository *struct {
		Refs struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []struct {
				Name   string `json:"name"`
				Target struct {
					CommittedDate *time.Time `json:"committedDate"`
				} `json:"target"`
			} `json:"nodes"`
		} `json:"refs"`
	} `json:"repository"`
}

// ListBranches returns every branch in listing order with its protection flag
// and head commit date.
func (f *Fetcher) ListBranches(ctx context.Context) ([]models.Branch, error) {
	val, err := f.fetchOnce(ctx, branchesKey, f.listBranches)
	if err != nil {
		return nil, err
	}
	return slices.Clone(val.([]models.Branch)), nil
}

func (f *Fetcher) listBranches(ctx context.Context) (any, error) {
	var out []models.Branch
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: listPageSize}}
	for {
		if err := f.budget.Acquire(ctx); err != nil {
			return nil, err
		}
		page, resp, err := f.client.Client.Repositories.ListBranches(ctx, f.owner, f.name, opts)
		if resp != nil {
			f.budget.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return nil, err
		}
		for _, b := range page {
			out = append(out, models.Branch{
				Name:      b.GetName(),
				Protected: b.GetProtected(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	dates, err := f.branchCommitDates(ctx)
	if err != nil {
		return nil, err
	}

	for i := range out {
		when, ok := dates[out[i].Name]
		if !ok {
			// Created after the GraphQL page was read, or its head is not a commit.
			f.logger.Debug("commit date missing from bulk listing; fetching branch", zap.String("branch", out[i].Name))
			b, err := f.GetBranch(ctx, out[i].Name)
			if err != nil {
				return nil, err
			}
			when = b.LastCommit
		}
		out[i].LastCommit = when
	}

	f.logger.Debug("listed branches", zap.String("repo", f.FullName()), zap.Int("count", len(out)))
	return out, nil
}

func (f *Fetcher) branchCommitDates(ctx context.Context) (map[string]time.Time, error) {
	dates := make(map[string]time.Time)
	var cursor *string
	for {
		if err := f.budget.Acquire(ctx); err != nil {
			return nil, err
		}
		resp, hresp, err := gh.DoGraphQL[branchCommitDatesData](ctx, f.client, gh.GraphQLRequest{
			Query: branchCommitDatesQuery,
			Variables: map[string]any{
				"owner":  f.owner,
				"name":   f.name,
				"cursor": cursor,
			},
		})
		if hresp != nil {
			f.budget.UpdateFromResponse(hresp)
		}
		if err != nil {
			return nil, fmt.Errorf("list branch commit dates: %w", err)
		}
		repo := resp.Data.Repository
		if repo == nil {
			return nil, &gh.GraphQLStatusError{StatusCode: http.StatusNotFound, Message: "repository not found"}
		}
		for _, n := range repo.Refs.Nodes {
			if n.Target.CommittedDate != nil {
				dates[n.Name] = n.Target.CommittedDate.UTC()
			}
		}
		if !repo.Refs.PageInfo.HasNextPage {
			return dates, nil
		}
		next := repo.Refs.PageInfo.EndCursor
		cursor = &next
	}
}

// GetBranch fetches the current state of one branch.
func (f *Fetcher) GetBranch(ctx context.Context, branch string) (models.Branch, error) {
	if err := f.budget.Acquire(ctx); err != nil {
		return models.Branch{}, err
	}
	b, resp, err := f.client.Client.Repositories.GetBranch(ctx, f.owner, f.name, branch, 1)
	if resp != nil {
		f.budget.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return models.Branch{}, err
	}
	return models.Branch{
		Name:       b.GetName(),
		Protected:  b.GetProtected(),
		LastCommit: b.GetCommit().GetCommit().GetCommitter().GetDate().UTC(),
	}, nil
}
