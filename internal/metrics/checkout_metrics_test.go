package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewCheckoutMetrics(t *testing.T) {
	metrics := NewCheckoutMetrics()

	if metrics == nil {
		t.Fatal("NewCheckoutMetrics should not return nil")
	}

	if metrics.checkoutStarted == nil {
		t.Error("checkoutStarted counter should not be nil")
	}

	if metrics.checkoutResumed == nil {
		t.Error("checkoutResumed counter should not be nil")
	}

	if metrics.ordersPlaced == nil {
		t.Error("ordersPlaced counter should not be nil")
	}

	if metrics.paymentFailures == nil {
		t.Error("paymentFailures counter should not be nil")
	}

	if metrics.stepAdvanced == nil {
		t.Error("stepAdvanced counter vec should not be nil")
	}

	if metrics.stepRejected == nil {
		t.Error("stepRejected counter vec should not be nil")
	}

	if metrics.couponsApplied == nil {
		t.Error("couponsApplied counter should not be nil")
	}

	if metrics.couponsRejected == nil {
		t.Error("couponsRejected counter should not be nil")
	}

	if metrics.checkoutDuration == nil {
		t.Error("checkoutDuration histogram should not be nil")
	}
}

// Повторное создание с тем же registerer не должно паниковать: уже
// зарегистрированные коллекторы переиспользуются.
func TestNewCheckoutMetrics_RepeatedRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newCheckoutMetricsWithRegisterer(registry)
	second := newCheckoutMetricsWithRegisterer(registry)

	first.RecordCheckoutStarted()
	second.RecordCheckoutStarted()

	if got := counterValue(t, second.checkoutStarted); got != 2 {
		t.Fatalf("expected shared counter value 2, got %v", got)
	}
}

func TestRecordCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newCheckoutMetricsWithRegisterer(registry)

	metrics.RecordCheckoutStarted()
	metrics.RecordCheckoutResumed()
	metrics.RecordOrderPlaced()
	metrics.RecordPaymentFailure()
	metrics.RecordCouponApplied()
	metrics.RecordCouponApplied()
	metrics.RecordCouponRejected()

	if got := counterValue(t, metrics.checkoutStarted); got != 1 {
		t.Errorf("checkoutStarted = %v, want 1", got)
	}
	if got := counterValue(t, metrics.checkoutResumed); got != 1 {
		t.Errorf("checkoutResumed = %v, want 1", got)
	}
	if got := counterValue(t, metrics.ordersPlaced); got != 1 {
		t.Errorf("ordersPlaced = %v, want 1", got)
	}
	if got := counterValue(t, metrics.paymentFailures); got != 1 {
		t.Errorf("paymentFailures = %v, want 1", got)
	}
	if got := counterValue(t, metrics.couponsApplied); got != 2 {
		t.Errorf("couponsApplied = %v, want 2", got)
	}
	if got := counterValue(t, metrics.couponsRejected); got != 1 {
		t.Errorf("couponsRejected = %v, want 1", got)
	}
}

func TestRecordStepTransitions(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newCheckoutMetricsWithRegisterer(registry)

	metrics.RecordStepAdvanced("shipping")
	metrics.RecordStepAdvanced("shipping")
	metrics.RecordStepRejected("delivery")

	if got := counterValue(t, metrics.stepAdvanced.WithLabelValues("shipping")); got != 2 {
		t.Errorf("stepAdvanced{shipping} = %v, want 2", got)
	}
	if got := counterValue(t, metrics.stepRejected.WithLabelValues("delivery")); got != 1 {
		t.Errorf("stepRejected{delivery} = %v, want 1", got)
	}
}

func TestRecordPaymentDuration(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newCheckoutMetricsWithRegisterer(registry)

	metrics.RecordPaymentDuration(250 * time.Millisecond)

	var m dto.Metric
	if err := metrics.checkoutDuration.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	if m.Histogram.GetSampleCount() != 1 {
		t.Fatalf("expected 1 sample, got %d", m.Histogram.GetSampleCount())
	}
	if m.Histogram.GetSampleSum() < 0.24 || m.Histogram.GetSampleSum() > 0.26 {
		t.Fatalf("expected sum ~0.25s, got %v", m.Histogram.GetSampleSum())
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.Counter.GetValue()
}
