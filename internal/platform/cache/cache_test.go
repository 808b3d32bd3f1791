package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFetchAndBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	c := NewJSON(client, "ledger", time.Minute)
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]float64{"outstanding": 500}, nil
	}

	key, err := c.Key(ctx, "Q-1")
	require.NoError(t, err)
	assert.Equal(t, "ledger:Q-1:v1", key)

	var got map[string]float64
	require.NoError(t, c.Fetch(ctx, key, &got, loader))
	require.NoError(t, c.Fetch(ctx, key, &got, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 500.0, got["outstanding"])

	require.NoError(t, c.Bump(ctx))
	key, err = c.Key(ctx, "Q-1")
	require.NoError(t, err)
	assert.Equal(t, "ledger:Q-1:v2", key)
	require.NoError(t, c.Fetch(ctx, key, &got, loader))
	assert.Equal(t, 2, calls)
}

func TestJSONWithoutClient(t *testing.T) {
	c := NewJSON(nil, "business", time.Minute)
	key, err := c.Key(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "business:7", key)

	var got string
	require.NoError(t, c.Fetch(context.Background(), key, &got, func(context.Context) (any, error) { return "USD", nil }))
	assert.Equal(t, "USD", got)

	boom := errors.New("boom")
	err = c.Fetch(context.Background(), key, &got, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestFlightCollapsesCalls(t *testing.T) {
	var f Flight
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 5)
	run := func(i int) {
		defer wg.Done()
		v, _, err := f.Do(context.Background(), "Q-9", load)
		assert.NoError(t, err)
		results[i] = v
	}
	wg.Add(1)
	go run(0)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go run(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFlightHonoursCancel(t *testing.T) {
	var f Flight
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := f.Do(ctx, "k", func(context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
