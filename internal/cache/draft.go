// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// draft.go stores in-progress storyboard drafts in Valkey. A draft lives
// between content generation and finalization; finalizing consumes it so the
// same draft cannot produce two presentations.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// draftKeyPrefix is the Valkey key prefix for drafts.
	draftKeyPrefix = "draft:"

	// DefaultDraftTTL is how long an untouched draft is kept.
	DefaultDraftTTL = 24 * time.Hour
)

// DraftCache keeps JSON-encoded drafts in Valkey.
type DraftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a draft cache backed by the given Valkey client.
func NewDraftCache(client *redis.Client, ttl time.Duration) *DraftCache {
	if ttl == 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftCache{client: client, ttl: ttl}
}

// DraftKey returns the Valkey key for a draft id.
func DraftKey(id string) string {
	return draftKeyPrefix + id
}

// Save stores v under id and resets its TTL.
func (dc *DraftCache) Save(ctx context.Context, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("draft marshal: %w", err)
	}
	if err := dc.client.Set(ctx, DraftKey(id), payload, dc.ttl).Err(); err != nil {
		return fmt.Errorf("draft save: %w", err)
	}
	slog.Debug("draft saved", "id", id)
	return nil
}

// Update overwrites the draft stored under id and resets its TTL. It never
// recreates a draft that expired or was consumed; that case returns false.
func (dc *DraftCache) Update(ctx context.Context, id string, v any) (bool, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("draft marshal: %w", err)
	}
	err = dc.client.SetArgs(ctx, DraftKey(id), payload, redis.SetArgs{Mode: "XX", TTL: dc.ttl}).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("draft update: %w", err)
	}
	slog.Debug("draft updated", "id", id)
	return true, nil
}

// Load decodes the draft stored under id into v. Returns false on a miss.
func (dc *DraftCache) Load(ctx context.Context, id string, v any) (bool, error) {
	payload, err := dc.client.Get(ctx, DraftKey(id)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("draft load: %w", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("draft unmarshal: %w", err)
	}
	return true, nil
}

// Take atomically reads and deletes the draft stored under id. Of two
// concurrent calls for the same id, only one gets the draft.
func (dc *DraftCache) Take(ctx context.Context, id string, v any) (bool, error) {
	payload, err := dc.client.GetDel(ctx, DraftKey(id)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("draft take: %w", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("draft unmarshal: %w", err)
	}
	slog.Debug("draft consumed", "id", id)
	return true, nil
}

// Delete removes a draft. Deleting a missing draft is not an error.
func (dc *DraftCache) Delete(ctx context.Context, id string) error {
	if err := dc.client.Del(ctx, DraftKey(id)).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}
