package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diewo77/salescrm/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNoDraft is returned by Load when the user has no saved draft.
var ErrNoDraft = errors.New("no draft")

// DraftKey is the name of the single draft slot.
const DraftKey = "client-form-draft"

// Draft is an in-progress client record and the step it was left on.
type Draft struct {
	Step   int           `json:"current_step"`
	Client models.Client `json:"data"`
}

// DraftStore keeps one draft per user.
type DraftStore interface {
	Load(ctx context.Context, userID uint) (*Draft, error)
	Save(ctx context.Context, userID uint, d *Draft) error
	Delete(ctx context.Context, userID uint) error
}

// MemoryDraftStore keeps drafts in process memory, encoded as JSON so callers
// never share a draft value.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[uint][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: map[uint][]byte{}}
}

func (m *MemoryDraftStore) Load(_ context.Context, userID uint) (*Draft, error) {
	m.mu.Lock()
	b, ok := m.drafts[userID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNoDraft
	}
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (m *MemoryDraftStore) Save(_ context.Context, userID uint, d *Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	m.mu.Lock()
	m.drafts[userID] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, userID uint) error {
	m.mu.Lock()
	delete(m.drafts, userID)
	m.mu.Unlock()
	return nil
}

// RedisDraftStore keeps drafts in Redis under crm:draft:<uid>:client-form-draft.
// A zero TTL keeps drafts forever.
type RedisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDraftStore(rdb *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{rdb: rdb, ttl: ttl}
}

func draftKey(userID uint) string {
	return fmt.Sprintf("crm:draft:%d:%s", userID, DraftKey)
}

func (r *RedisDraftStore) Load(ctx context.Context, userID uint) (*Draft, error) {
	val, err := r.rdb.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoDraft
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (r *RedisDraftStore) Save(ctx context.Context, userID uint, d *Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := r.rdb.Set(ctx, draftKey(userID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, userID uint) error {
	if err := r.rdb.Del(ctx, draftKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
