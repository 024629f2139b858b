package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики потока чекаута и корзины.
type CheckoutMetrics struct {
	// Счётчики жизненного цикла чекаута
	checkoutStarted  prometheus.Counter
	checkoutResumed  prometheus.Counter
	ordersPlaced     prometheus.Counter
	paymentFailures  prometheus.Counter
	stepAdvanced     *prometheus.CounterVec
	stepRejected     *prometheus.CounterVec
	couponsApplied   prometheus.Counter
	couponsRejected  prometheus.Counter
	checkoutDuration prometheus.Histogram
}

// NewCheckoutMetrics создаёт новый экземпляр метрик чекаута.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		checkoutStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_started_total",
			Help: "Total number of checkout sessions started",
		}),
		checkoutResumed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_resumed_total",
			Help: "Total number of checkout sessions resumed from persisted state",
		}),
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		paymentFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_payment_failures_total",
			Help: "Total number of failed payment submissions",
		}),
		stepAdvanced: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_step_advanced_total",
			Help: "Total number of successful step transitions",
		}, []string{"step"}),
		stepRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_step_rejected_total",
			Help: "Total number of step transitions rejected by validation guards",
		}, []string{"step"}),
		couponsApplied: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_coupons_applied_total",
			Help: "Total number of coupons applied successfully",
		}),
		couponsRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_coupons_rejected_total",
			Help: "Total number of invalid coupon codes rejected",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "checkout_payment_duration_seconds",
			Help:    "Duration of payment submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordCheckoutStarted увеличивает счётчик новых сессий.
func (m *CheckoutMetrics) RecordCheckoutStarted() { m.checkoutStarted.Inc() }

// RecordCheckoutResumed увеличивает счётчик восстановленных сессий.
func (m *CheckoutMetrics) RecordCheckoutResumed() { m.checkoutResumed.Inc() }

// RecordOrderPlaced увеличивает счётчик размещённых заказов.
func (m *CheckoutMetrics) RecordOrderPlaced() { m.ordersPlaced.Inc() }

// RecordPaymentFailure увеличивает счётчик неуспешных оплат.
func (m *CheckoutMetrics) RecordPaymentFailure() { m.paymentFailures.Inc() }

// RecordStepAdvanced фиксирует успешный переход на шаг step.
func (m *CheckoutMetrics) RecordStepAdvanced(step string) {
	m.stepAdvanced.WithLabelValues(step).Inc()
}

// RecordStepRejected фиксирует отклонённый guard'ом переход с шага step.
func (m *CheckoutMetrics) RecordStepRejected(step string) {
	m.stepRejected.WithLabelValues(step).Inc()
}

// RecordCouponApplied увеличивает счётчик применённых купонов.
func (m *CheckoutMetrics) RecordCouponApplied() { m.couponsApplied.Inc() }

// RecordCouponRejected увеличивает счётчик отклонённых кодов.
func (m *CheckoutMetrics) RecordCouponRejected() { m.couponsRejected.Inc() }

// RecordPaymentDuration фиксирует длительность оплаты.
func (m *CheckoutMetrics) RecordPaymentDuration(d time.Duration) {
	m.checkoutDuration.Observe(d.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
