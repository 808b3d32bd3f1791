package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Flight collapses concurrent loads of the same key into one call.
type Flight struct {
	group singleflight.Group
}

// Do runs fn once per key among concurrent callers. The caller stops waiting
// when ctx is done; the shared call keeps running for the others.
func (f *Flight) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, bool, error) {
	ch := f.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}
