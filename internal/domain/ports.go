package domain

import "context"

// CheckoutStateStore — порт персистентности состояния чекаута.
// Контракт: Save вызывается после каждой мутации, Load — один раз при
// инициализации, Clear — ровно один раз при достижении терминального шага.
// Любое key-value хранилище (память, Redis, Postgres, localStorage на
// клиенте) удовлетворяет контракту при сохранении этих семантик.
type CheckoutStateStore interface {
	// Save сериализует и сохраняет полное состояние сессии.
	Save(ctx context.Context, sessionID string, state CheckoutState) error
	// Load возвращает сохранённое состояние; ok=false, если состояния нет.
	// Нечитаемые данные возвращаются как ErrStateCorrupted: вызывающая
	// сторона логирует и откатывается к состоянию по умолчанию.
	Load(ctx context.Context, sessionID string) (state CheckoutState, ok bool, err error)
	// Clear удаляет состояние сессии. Отсутствие состояния не ошибка.
	Clear(ctx context.Context, sessionID string) error
}

// PaymentService описывает взаимодействие с платёжным провайдером.
type PaymentService interface {
	// Charge инициирует списание; при ошибке состояние чекаута не меняется
	// и операцию можно безопасно повторить.
	Charge(ctx context.Context, orderRef string, amountMinor int64, currency string, card PaymentCard) (PaymentStatus, error)
}

// ShippingPolicy отдаёт стоимость способа доставки по его идентификатору.
type ShippingPolicy interface {
	// MethodCost возвращает стоимость в минимальных единицах; ok=false для
	// неизвестного идентификатора.
	MethodCost(id string) (costMinor int64, ok bool)
}

// EventPublisher публикует события жизненного цикла чекаута наружу.
// Публикация best-effort: ошибка не прерывает поток чекаута.
type EventPublisher interface {
	Publish(eventType string, sessionID string, metadata map[string]interface{})
}
