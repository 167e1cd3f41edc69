package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// maxUpdateAttempts bounds the optimistic retries of Update
const maxUpdateAttempts = 10

// retryBackoff is the linear step between optimistic retries
const retryBackoff = 5 * time.Millisecond

// ErrConcurrentUpdate is returned when Update keeps losing the race for the key
var ErrConcurrentUpdate = errors.New("current menu changed concurrently")

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// MenuRepository stores the serialized current menu under one key.
// Writers in one process queue on mu; Update is additionally a WATCH/MULTI
// transaction retried on conflict with writers in other processes.
type MenuRepository struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	logger *zap.Logger
	mu     sync.Mutex
}

// NewMenuRepository creates a menu repository on key. A zero ttl keeps the
// menu until it is cleared.
func NewMenuRepository(client redis.UniversalClient, key string, ttl time.Duration, logger *zap.Logger) *MenuRepository {
	return &MenuRepository{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger.Named("redis-menu"),
	}
}

var _ outbound.MenuRepository = (*MenuRepository)(nil)

// Load returns the stored menu or nil when there is none
func (r *MenuRepository) Load(ctx context.Context) (*menu.CurrentMenu, error) {
	return r.get(ctx, r.client)
}

// Save replaces the stored menu
func (r *MenuRepository) Save(ctx context.Context, m *menu.CurrentMenu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := menu.Encode(m)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, payload, r.ttl).Err(); err != nil {
		r.logger.Error("Menu save failed", zap.String("key", r.key), zap.Error(err))
		return err
	}
	return nil
}

// Clear deletes the stored menu
func (r *MenuRepository) Clear(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.client.Del(ctx, r.key).Result()
	if err != nil {
		r.logger.Error("Menu delete failed", zap.String("key", r.key), zap.Error(err))
		return false, err
	}
	return n > 0, nil
}

// Update runs fn against the stored menu and writes its result unless the
// key changed meanwhile, in which case fn runs again on the fresh value
func (r *MenuRepository) Update(ctx context.Context, fn outbound.MenuMutation) (*menu.CurrentMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stored *menu.CurrentMenu

	txf := func(tx *redis.Tx) error {
		current, err := r.get(ctx, tx)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			stored = current
			return nil
		}

		payload, err := menu.Encode(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = next
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, r.key)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		if attempt == maxUpdateAttempts {
			break
		}
		r.logger.Debug("Menu update conflict, retrying", zap.Int("attempt", attempt))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrConcurrentUpdate, maxUpdateAttempts)
}

func (r *MenuRepository) get(ctx context.Context, c getter) (*menu.CurrentMenu, error) {
	payload, err := c.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return menu.Decode(payload)
}
