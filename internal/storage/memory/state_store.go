package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// stateStoreInMemory — in-memory реализация CheckoutStateStore.
// Состояние хранится как JSON-snapshot, так что сериализация проходит тот же
// путь, что и во внешних backend'ах (и в localStorage у фронтенда).
type stateStoreInMemory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewStateStore возвращает in-memory хранилище для локальной разработки и тестов.
func NewStateStore() domain.CheckoutStateStore {
	return &stateStoreInMemory{
		items: make(map[string][]byte),
	}
}

// Save сериализует состояние и перезаписывает snapshot сессии.
func (s *stateStoreInMemory) Save(ctx context.Context, sessionID string, state domain.CheckoutState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkout state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = data
	return nil
}

// Load возвращает десериализованное состояние; ok=false, если snapshot'а нет.
func (s *stateStoreInMemory) Load(ctx context.Context, sessionID string) (domain.CheckoutState, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.CheckoutState{}, false, err
	}

	s.mu.RLock()
	data, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.CheckoutState{}, false, nil
	}

	var state domain.CheckoutState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.CheckoutState{}, false, fmt.Errorf("%w: %v", domain.ErrStateCorrupted, err)
	}
	return state, true, nil
}

// Clear удаляет snapshot сессии; отсутствие snapshot'а не ошибка.
func (s *stateStoreInMemory) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

// Put кладёт сырой snapshot; используется тестами для имитации битых данных.
func (s *stateStoreInMemory) Put(sessionID string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = raw
}

var _ domain.CheckoutStateStore = (*stateStoreInMemory)(nil)
