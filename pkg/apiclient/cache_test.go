package apiclient

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheFetchConcurrentCallersShareOneCall(t *testing.T) {
	cache := NewCache()

	var calls int32
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			body, err := cache.Fetch("/api/costumes", func() ([]byte, error) {
				atomic.AddInt32(&calls, 1)
				return []byte(`[]`), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, []byte(`[]`), body)
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent fetches must collapse into one call")
}

func TestCacheFetchDoesNotCacheErrors(t *testing.T) {
	cache := NewCache()
	boom := errors.New("upstream down")

	_, err := cache.Fetch("/api/costumes", func() ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	body, err := cache.Fetch("/api/costumes", func() ([]byte, error) {
		return []byte(`ok`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte(`ok`), body)
}

func TestCacheInvalidateByPrefix(t *testing.T) {
	cache := NewCache()
	seed := func(key string) {
		_, err := cache.Fetch(key, func() ([]byte, error) { return []byte(`x`), nil })
		require.NoError(t, err)
	}
	seed("/api/costumes?theme=horror")
	seed("/api/costumes?size=M")
	seed("/api/accessories")

	cache.Invalidate("/api/costumes")

	_, ok := cache.Get("/api/costumes?theme=horror")
	assert.False(t, ok)
	_, ok = cache.Get("/api/costumes?size=M")
	assert.False(t, ok)
	_, ok = cache.Get("/api/accessories")
	assert.True(t, ok, "other collections must survive")
}

func TestCacheClear(t *testing.T) {
	cache := NewCache()
	_, err := cache.Fetch("/api/items/1", func() ([]byte, error) { return []byte(`x`), nil })
	require.NoError(t, err)

	cache.Clear()
	assert.Zero(t, cache.Len())
}
