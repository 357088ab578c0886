package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newTestRedisCache 需要本地 Redis，连接失败则跳过
func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis test in short mode")
	}
	client, err := NewRedisClient(context.Background(), "localhost:6379", "", 1)
	if err != nil {
		t.Skipf("Skipping Redis test, cannot connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client)
}

func TestRedisCache_Basic(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := "test:key1"
		defer c.Del(ctx, key)

		if err := c.Set(ctx, key, map[string]interface{}{"name": "test"}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		var result map[string]interface{}
		if err := c.Get(ctx, key, &result); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if result["name"] != "test" {
			t.Errorf("Expected name=test, got %v", result["name"])
		}
	})

	t.Run("Miss", func(t *testing.T) {
		var result string
		if err := c.Get(ctx, "test:absent", &result); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Take", func(t *testing.T) {
		key := "test:take"
		c.Set(ctx, key, "v", time.Minute)

		ok, err := c.Take(ctx, key)
		if err != nil || !ok {
			t.Fatalf("first Take = %v, %v", ok, err)
		}
		ok, err = c.Take(ctx, key)
		if err != nil || ok {
			t.Fatalf("second Take = %v, %v", ok, err)
		}
	})
}

func TestCache_Compatibility(t *testing.T) {
	caches := map[string]Cache{
		"memory": NewMemoryCache(),
	}
	if !testing.Short() {
		if client, err := NewRedisClient(context.Background(), "localhost:6379", "", 2); err == nil {
			defer client.Close()
			caches["redis"] = NewRedisCache(client)
		}
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := "test:compat"
			defer c.Del(ctx, key)

			if err := c.Set(ctx, key, "test_value", time.Minute); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			var result string
			if err := c.Get(ctx, key, &result); err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if result != "test_value" {
				t.Errorf("Expected test_value, got %v", result)
			}

			ok, err := c.SetNX(ctx, key, "second", time.Minute)
			if err != nil || ok {
				t.Errorf("SetNX on existing key = %v, %v", ok, err)
			}

			if err := c.Del(ctx, key); err != nil {
				t.Fatalf("Del failed: %v", err)
			}
			if err := c.Get(ctx, key, &result); !errors.Is(err, ErrCacheMiss) {
				t.Errorf("Key should be deleted, got %v", err)
			}
		})
	}
}
