// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// workspace.go stores serialized session workspaces in Valkey so a session
// survives restarts and idle eviction. Entries expire with the session.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// workspaceKeyPrefix is the Valkey key prefix for workspaces.
	workspaceKeyPrefix = "workspace:"

	// DefaultWorkspaceTTL is how long an untouched workspace is kept.
	DefaultWorkspaceTTL = 24 * time.Hour
)

// WorkspaceCache persists workspace payloads in Valkey.
type WorkspaceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWorkspaceCache creates a workspace cache backed by the given Valkey client.
func NewWorkspaceCache(client *redis.Client, ttl time.Duration) *WorkspaceCache {
	if ttl == 0 {
		ttl = DefaultWorkspaceTTL
	}
	return &WorkspaceCache{client: client, ttl: ttl}
}

// Load returns the stored payload, or nil when there is none.
func (wc *WorkspaceCache) Load(ctx context.Context, id string) ([]byte, error) {
	val, err := wc.client.Get(ctx, workspaceKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	return val, nil
}

// Save stores the payload and restarts its TTL.
func (wc *WorkspaceCache) Save(ctx context.Context, id string, data []byte) error {
	if err := wc.client.Set(ctx, workspaceKeyPrefix+id, data, wc.ttl).Err(); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// Delete removes a stored workspace.
func (wc *WorkspaceCache) Delete(ctx context.Context, id string) error {
	if err := wc.client.Del(ctx, workspaceKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

// Clear removes every stored workspace by scanning for the prefix.
func (wc *WorkspaceCache) Clear(ctx context.Context) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := wc.client.Scan(ctx, cursor, workspaceKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan workspaces: %w", err)
		}
		if len(keys) > 0 {
			if err := wc.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("delete workspaces: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("workspace cache cleared", "deleted", deleted)
	}
	return deleted, nil
}
