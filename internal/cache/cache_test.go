// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Cache tests require a reachable Valkey instance and are skipped otherwise.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	k1 := Key("<html>a</html>", "minimal")
	k2 := Key("<html>a</html>", "minimal")
	if k1 != k2 {
		t.Error("same inputs must produce the same key")
	}

	if Key("<html>a</html>", "minimal") == Key("<html>b</html>", "minimal") {
		t.Error("different documents must produce different keys")
	}
	if Key("<html>a</html>", "minimal") == Key("<html>a</html>", "brutalist") {
		t.Error("different aesthetics must produce different keys")
	}

	// The separator prevents boundary ambiguity between html and aesthetic.
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("boundary shift must produce different keys")
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var tc *TransformCache

	if _, ok := tc.Get(context.Background(), "any"); ok {
		t.Error("nil cache Get: got ok=true, want false")
	}
	// Must not panic.
	tc.Set(context.Background(), "any", "<html></html>")
}

func TestTransformCacheRoundTrip(t *testing.T) {
	tc := NewTransformCache(testClient(t), time.Minute)
	ctx := context.Background()

	key := Key("<html>doc</html>", "vaporwave")
	if _, ok := tc.Get(ctx, key); ok {
		t.Fatal("unexpected hit before Set")
	}

	tc.Set(ctx, key, "<html>styled</html>")

	got, ok := tc.Get(ctx, key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != "<html>styled</html>" {
		t.Errorf("got %q, want %q", got, "<html>styled</html>")
	}
}
