package fetcher_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetcher_ConcurrentListingsShareOneFetch(t *testing.T) {
	mux := http.NewServeMux()
	var restCalls, graphqlCalls, pullCalls int32
	release := make(chan struct{})

	mux.HandleFunc("GET /repos/acme/widgets/branches", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&restCalls, 1)
		<-release
		fmt.Fprint(w, `[{"name":"main","protected":true},{"name":"stale"}]`)
	})
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&graphqlCalls, 1)
		fmt.Fprint(w, `{"data":{"repository":{"refs":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[
				{"name":"main","target":{"committedDate":"2026-10-01T12:00:00Z"}},
				{"name":"stale","target":{"committedDate":"2026-08-01T12:00:00Z"}}
			]}}}}`)
	})
	mux.HandleFunc("GET /repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pullCalls, 1)
		<-release
		fmt.Fprint(w, `[{"number":1,"base":{"ref":"main"},"head":{"ref":"stale"}}]`)
	})

	f := newTestFetcher(t, mux)

	const callers = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*callers)
	for i := 0; i < callers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			branches, err := f.ListBranches(context.Background())
			if err == nil && len(branches) != 2 {
				err = fmt.Errorf("got %d branches, want 2", len(branches))
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			pulls, err := f.ListPullRequests(context.Background())
			if err == nil && len(pulls) != 1 {
				err = fmt.Errorf("got %d pull requests, want 1", len(pulls))
			}
			errs <- err
		}()
	}

	// Let every caller join the in-flight requests before they complete.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&restCalls))
	require.EqualValues(t, 1, atomic.LoadInt32(&graphqlCalls))
	require.EqualValues(t, 1, atomic.LoadInt32(&pullCalls))
}
