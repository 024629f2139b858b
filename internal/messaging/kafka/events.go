package kafka

import (
	"time"

	"github.com/google/uuid"
)

// Topics для Kafka.
const (
	// TopicCheckoutEvents — события жизненного цикла чекаута.
	TopicCheckoutEvents = "storefront.checkout.events"
)

// CheckoutEvent представляет событие чекаута, публикуемое наружу
// (аналитика, email-уведомления, синхронизация склада).
type CheckoutEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	SessionID string                 `json:"session_id"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewCheckoutEvent создаёт событие чекаута с уникальным ID и таймстампом.
func NewCheckoutEvent(eventType, sessionID string, metadata map[string]interface{}) CheckoutEvent {
	return CheckoutEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}
