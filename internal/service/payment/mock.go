package payment

import (
	"context"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// declineTestCard — номер карты, на котором демо-провайдер всегда отклоняет
// платёж (стандартная тестовая карта отказа).
const declineTestCard = "4000000000000002"

// MockService — конфигурируемая заглушка PaymentService для демо-потока и тестов.
type MockService struct {
	mu sync.Mutex

	ChargeStatus domain.PaymentStatus
	ChargeErr    error

	ChargeCalls int
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{ChargeStatus: domain.PaymentStatusCaptured}
}

// Charge возвращает заранее настроенный результат и считает вызовы.
// Тестовая карта отказа отклоняется независимо от настроек.
func (m *MockService) Charge(ctx context.Context, orderRef string, amountMinor int64, currency string, card domain.PaymentCard) (domain.PaymentStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChargeCalls++

	if strings.ReplaceAll(card.Number, " ", "") == declineTestCard {
		return domain.PaymentStatusDeclined, domain.ErrPaymentDeclined
	}
	return m.ChargeStatus, m.ChargeErr
}

var _ domain.PaymentService = (*MockService)(nil)
