package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// StateStore — PostgreSQL-реализация CheckoutStateStore: одна строка на
// сессию, состояние как JSONB.
type StateStore struct {
	store *Store
}

// NewStateStore создаёт хранилище поверх открытого Store.
func NewStateStore(store *Store) *StateStore {
	return &StateStore{store: store}
}

// Save сохраняет состояние сессии через upsert.
func (s *StateStore) Save(ctx context.Context, sessionID string, state domain.CheckoutState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkout state: %w", err)
	}

	const query = `
INSERT INTO checkout_sessions (session_id, state, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (session_id)
DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`

	if _, err := s.store.db.ExecContext(ctx, query, sessionID, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("save checkout state: %w", err)
	}
	return nil
}

// Load читает состояние сессии; ok=false, если строки нет.
func (s *StateStore) Load(ctx context.Context, sessionID string) (domain.CheckoutState, bool, error) {
	const query = `SELECT state FROM checkout_sessions WHERE session_id = $1`

	var data []byte
	err := s.store.db.QueryRowContext(ctx, query, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
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

// Clear удаляет строку сессии; отсутствие строки не ошибка.
func (s *StateStore) Clear(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM checkout_sessions WHERE session_id = $1`
	if _, err := s.store.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("clear checkout state: %w", err)
	}
	return nil
}

var _ domain.CheckoutStateStore = (*StateStore)(nil)
