package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestMockService_DefaultCaptures(t *testing.T) {
	svc := NewMockService()

	status, err := svc.Charge(context.Background(), "ref-1", 25000, "TRY", domain.PaymentCard{Number: "4242424242424242"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.PaymentStatusCaptured {
		t.Fatalf("expected captured, got %v", status)
	}
	if svc.ChargeCalls != 1 {
		t.Fatalf("expected 1 call, got %d", svc.ChargeCalls)
	}
}

func TestMockService_DeclineTestCard(t *testing.T) {
	svc := NewMockService()

	// Карта отказа отклоняется и с пробелами в номере.
	status, err := svc.Charge(context.Background(), "ref-1", 25000, "TRY", domain.PaymentCard{Number: "4000 0000 0000 0002"})
	if !errors.Is(err, domain.ErrPaymentDeclined) {
		t.Fatalf("expected ErrPaymentDeclined, got %v", err)
	}
	if status != domain.PaymentStatusDeclined {
		t.Fatalf("expected declined, got %v", status)
	}
}

func TestMockService_ConfiguredFailure(t *testing.T) {
	svc := NewMockService()
	svc.ChargeStatus = ""
	svc.ChargeErr = domain.ErrPaymentTemporary

	_, err := svc.Charge(context.Background(), "ref-1", 25000, "TRY", domain.PaymentCard{})
	if !errors.Is(err, domain.ErrPaymentTemporary) {
		t.Fatalf("expected ErrPaymentTemporary, got %v", err)
	}
}

func TestMockService_CanceledContext(t *testing.T) {
	svc := NewMockService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Charge(ctx, "ref-1", 1, "TRY", domain.PaymentCard{}); err == nil {
		t.Fatal("expected context error")
	}
}
