package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewCheckoutEvent(
		"checkout.order.placed",
		"session-123",
		map[string]interface{}{
			"order_number": "ORD-12345678",
		},
	)

	if err := producer.PublishEvent(TopicCheckoutEvents, "session-123", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewCheckoutEvent("checkout.started", "session-123", nil)

	if err := producer.PublishEvent(TopicCheckoutEvents, "session-123", event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewCheckoutEvent(t *testing.T) {
	event := NewCheckoutEvent("checkout.resumed", "session-1", map[string]interface{}{"step": "shipping"})

	if event.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if event.EventType != "checkout.resumed" || event.SessionID != "session-1" {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

// EventPublisher не возвращает ошибок наверх: публикация best-effort.
func TestEventPublisher_PublishSwallowsErrors(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	publisher := NewEventPublisher(producer, nil)

	publisher.Publish("checkout.started", "session-1", nil)

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestEventPublisher_MessageLayout(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event CheckoutEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != "checkout.order.placed" {
			t.Fatalf("unexpected event type %q", event.EventType)
		}
		return nil
	})

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	publisher := NewEventPublisher(producer, nil)

	publisher.Publish("checkout.order.placed", "session-1", map[string]interface{}{"order_number": "ORD-00000001"})

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
