package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookdesk/bookdesk/internal/currency"
)

const draftKeyPrefix = "pricing:draft:"

// Draft is an amount section being edited in an open form.
type Draft struct {
	ID        string        `json:"id"`
	Business  currency.Code `json:"businessCurrency"`
	State     State         `json:"state"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DraftStore keeps open-form drafts in Redis until the form is submitted or closed.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore instantiates the store.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &DraftStore{client: client, ttl: ttl}
}

// Save writes the draft and refreshes its expiry.
func (s *DraftStore) Save(ctx context.Context, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKeyPrefix+d.ID, raw, s.ttl).Err()
}

// Load reads a draft.
func (s *DraftStore) Load(ctx context.Context, id string) (Draft, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrDraftNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Delete discards a draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKeyPrefix+id).Err()
}
