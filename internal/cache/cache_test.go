// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testOptions points at the test Valkey; DB 15 keeps tests away from
// development data.
func testOptions() Options {
	return Options{
		Host:     envOr("VALKEY_HOST", "localhost"),
		Port:     envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	}
}

// testValkeyClient opens the test Valkey or skips the test.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client, err := Open(context.Background(), testOptions())
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() {
		NewWorkspaceCache(client, 0).Clear(context.Background())
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestOpenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Open(ctx, Options{Host: "127.0.0.1", Port: "1"})
	if err == nil {
		t.Fatal("Open succeeded against a closed port")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error %q does not name the address", err)
	}
}

func TestOptionsAddr(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Host: "localhost", Port: "6379"}, "localhost:6379"},
		{Options{Host: "::1", Port: "6380"}, "[::1]:6380"},
	}
	for _, tt := range tests {
		if got := tt.opts.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestWorkspaceCacheLifecycle(t *testing.T) {
	client := testValkeyClient(t)
	wc := NewWorkspaceCache(client, time.Minute)
	ctx := context.Background()

	data, err := wc.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load miss: %v", err)
	}
	if data != nil {
		t.Error("expected nil payload on miss")
	}

	payload := []byte(`{"templates":[]}`)
	if err := wc.Save(ctx, "session-1", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err = wc.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("payload = %q, want %q", data, payload)
	}

	ttl, err := client.TTL(ctx, workspaceKeyPrefix+"session-1").Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %v, want within 1m", ttl)
	}

	if err := wc.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if data, _ := wc.Load(ctx, "session-1"); data != nil {
		t.Error("expected miss after delete")
	}
}

func TestWorkspaceCacheClear(t *testing.T) {
	client := testValkeyClient(t)
	wc := NewWorkspaceCache(client, time.Minute)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := wc.Save(ctx, id, []byte("{}")); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}
	client.Set(ctx, "unrelated:key", "x", time.Minute)
	t.Cleanup(func() { client.Del(ctx, "unrelated:key") })

	n, err := wc.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() deleted %d, want 3", n)
	}
	if v, _ := client.Get(ctx, "unrelated:key").Result(); v != "x" {
		t.Error("Clear must only touch workspace keys")
	}
}

func TestNewWorkspaceCacheDefaultTTL(t *testing.T) {
	wc := NewWorkspaceCache(nil, 0)
	if wc.ttl != DefaultWorkspaceTTL {
		t.Errorf("ttl = %v, want %v", wc.ttl, DefaultWorkspaceTTL)
	}
}
