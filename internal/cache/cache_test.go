package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "short", "v", 10*time.Millisecond)
	c.Set(ctx, "forever", "v", 0)

	time.Sleep(20 * time.Millisecond)

	var v string
	if err := c.Get(ctx, "short", &v); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired key: got %v, want ErrCacheMiss", err)
	}
	if err := c.Get(ctx, "forever", &v); err != nil {
		t.Errorf("key without expiration should survive: %v", err)
	}
}

func TestMemoryCache_TakeOnce(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	c.Set(ctx, "refresh:abc", true, time.Minute)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := c.Take(ctx, "refresh:abc"); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Take should succeed exactly once, got %d", wins)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)
	var v string
	if err := c.Get(ctx, "k", &v); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("NullCache Get should miss, got %v", err)
	}
	if ok, _ := c.Take(ctx, "k"); ok {
		t.Error("NullCache Take should report absent")
	}
}
