package fetcher

import (
	"context"
	"fmt"
	"strings"

	gh "branchsweep/internal/github"

	"go.uber.org/zap"
)

// Fetcher reads and mutates one GitHub repository on behalf of the engine.
//
// Listings (branches, pull requests, repository metadata) are fetched at most
// once per Fetcher and served from cache afterwards, so every stage of a run
// sees the same snapshot. GetBranch and DeleteRef always hit the API.
type Fetcher struct {
	client  *gh.Client
	budget  *RequestBudget
	group   Group
	cache   *Cache
	owner   string
	name    string
	prState string
	logger  *zap.Logger
}

type Option func(*Fetcher)

// WithPullRequestState selects which pull requests ListPullRequests returns:
// open, closed or all. Defaults to open.
func WithPullRequestState(state string) Option {
	return func(f *Fetcher) {
		f.prState = state
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func NewFetcher(client *gh.Client, budget *RequestBudget, owner, name string, opts ...Option) (*Fetcher, error) {
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("fetcher: nil GitHub client")
	}
	if budget == nil {
		return nil, fmt.Errorf("fetcher: nil request budget")
	}
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("fetcher: repo owner/name is required")
	}

	f := &Fetcher{
		client:  client,
		budget:  budget,
		cache:   NewCache(),
		owner:   owner,
		name:    name,
		prState: "open",
		logger:  zap.NewNop(),
	}
	for _, apply := range opts {
		if apply != nil {
			apply(f)
		}
	}
	return f, nil
}

func (f *Fetcher) Budget() *RequestBudget {
	return f.budget
}

func (f *Fetcher) FullName() string {
	return f.owner + "/" + f.name
}

// fetchOnce memoizes fn under key. Concurrent callers share one in-flight call;
// failures are not cached.
func (f *Fetcher) fetchOnce(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if ctx == nil {
		return nil, fmt.Errorf("fetch %s: nil context", key)
	}
	flightKey := strings.ToLower(f.FullName()) + ":" + key

	if val, ok := f.cache.Get(flightKey); ok {
		return val, nil
	}

	val, err, _ := f.group.Do(flightKey, func() (interface{}, error) {
		return fn(ctx)
	})
	if err == nil {
		f.cache.Set(flightKey, val)
	}
	return val, err
}
