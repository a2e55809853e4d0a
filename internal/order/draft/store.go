package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix  = "po:draft:"
	submitKeyPrefix = "po:draft:submit:"
	submitLockTTL   = 30 * time.Second
)

// Store persists drafts in Redis as JSON documents. Drafts carry no key TTL;
// the sweep job removes the ones that went stale.
type Store struct {
	client *redis.Client
}

// NewStore constructs a Redis-backed draft store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save writes the draft document.
func (s *Store) Save(ctx context.Context, o *Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("draft: marshal: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+o.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("draft: save: %w", err)
	}
	return nil
}

// Get loads a draft by ID.
func (s *Store) Get(ctx context.Context, id string) (*Order, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("draft: get: %w", err)
	}
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("draft: unmarshal: %w", err)
	}
	return &o, nil
}

// Delete discards a draft. Deleting a missing draft is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("draft: delete: %w", err)
	}
	return nil
}

// AcquireSubmit takes the per-draft submission guard. It returns false when a
// submission for this draft is already in flight.
func (s *Store) AcquireSubmit(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, submitKeyPrefix+id, "1", submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("draft: acquire submit: %w", err)
	}
	return ok, nil
}

// ReleaseSubmit clears the submission guard.
func (s *Store) ReleaseSubmit(ctx context.Context, id string) {
	_ = s.client.Del(ctx, submitKeyPrefix+id).Err()
}

// Sweep deletes drafts whose last update is older than maxAge and returns how
// many were removed.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	iter := s.client.Scan(ctx, 0, draftKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if len(key) >= len(submitKeyPrefix) && key[:len(submitKeyPrefix)] == submitKeyPrefix {
			continue
		}
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var o Order
		if err := json.Unmarshal(data, &o); err != nil {
			// Unreadable document, drop it.
			if s.client.Del(ctx, key).Err() == nil {
				removed++
			}
			continue
		}
		if o.UpdatedAt.Before(cutoff) {
			if s.client.Del(ctx, key).Err() == nil {
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("draft: sweep scan: %w", err)
	}
	return removed, nil
}
