package fetcher

import (
	"golang.org/x/sync/singleflight"
)

// Group collapses concurrent identical fetches into one call.
type Group struct {
	g singleflight.Group
}

func (g *Group) Do(key string, fn func() (interface{}, error)) (interface{}, error, bool) {
	return g.g.Do(key, fn)
}
