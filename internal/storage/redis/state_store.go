package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const keyPrefix = "checkout:session:"

// defaultTTL ограничивает жизнь незавершённого чекаута в Redis.
const defaultTTL = 24 * time.Hour

// StateStore — Redis-реализация CheckoutStateStore: один ключ на сессию,
// JSON-snapshot с TTL.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore создаёт хранилище поверх подключения к Redis.
// ttl <= 0 заменяется дефолтом в 24 часа.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &StateStore{client: client, ttl: ttl}
}

// Open подключается к Redis и проверяет доступность.
func Open(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Save сериализует состояние и выставляет его с TTL.
func (s *StateStore) Save(ctx context.Context, sessionID string, state domain.CheckoutState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkout state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save checkout state: %w", err)
	}
	return nil
}

// Load читает и десериализует состояние; ok=false, если ключа нет.
func (s *StateStore) Load(ctx context.Context, sessionID string) (domain.CheckoutState, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CheckoutState{}, false, nil
	}
	if err != nil {
		return domain.CheckoutState{}, false, fmt.Errorf("load checkout state: %w", err)
	}

	var state domain.CheckoutState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.CheckoutState{}, false, fmt.Errorf("%w: %v", domain.ErrStateCorrupted, err)
	}
	return state, true, nil
}

// Clear удаляет ключ сессии.
func (s *StateStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("clear checkout state: %w", err)
	}
	return nil
}

var _ domain.CheckoutStateStore = (*StateStore)(nil)
