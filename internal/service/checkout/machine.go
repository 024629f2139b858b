package checkout

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// Типы событий жизненного цикла чекаута.
const (
	EventCheckoutStarted = "checkout.started"
	EventCheckoutResumed = "checkout.resumed"
	EventStepAdvanced    = "checkout.step.advanced"
	EventStepBack        = "checkout.step.back"
	EventOrderPlaced     = "checkout.order.placed"
	EventPaymentFailed   = "checkout.payment.failed"
)

// orderNumberPrefix + последние 8 цифр millisecond-таймстампа дают
// уникальный, сортируемый и удобный для диктовки номер заказа.
const orderNumberPrefix = "ORD-"

// Machine — линейный state machine чекаута одной сессии:
// Delivery(1) → Shipping(2) → Payment(3) → Confirmation(4).
// Каждая успешная мутация персистится целиком; достижение шага 4 удаляет
// сохранённое состояние (one-shot: состояние живёт только пока чекаут не завершён).
type Machine struct {
	sessionID string
	state     domain.CheckoutState

	store    domain.CheckoutStateStore
	payments domain.PaymentService
	shipping domain.ShippingPolicy
	events   domain.EventPublisher // опционально
	metrics  *metrics.CheckoutMetrics
	logger   *log.Entry

	now func() time.Time
}

// Options — необязательные зависимости машины.
type Options struct {
	Events  domain.EventPublisher
	Metrics *metrics.CheckoutMetrics
	Logger  *log.Entry
}

// Resume создаёт машину для сессии, восстанавливая сохранённое состояние.
// Нечитаемое состояние — мягкая деградация: логируем и начинаем с дефолтов,
// страница никогда не падает из-за битого snapshot'а.
func Resume(ctx context.Context, sessionID string, store domain.CheckoutStateStore, payments domain.PaymentService, shipping domain.ShippingPolicy, opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	logger = logger.WithField("session_id", sessionID)

	m := &Machine{
		sessionID: sessionID,
		store:     store,
		payments:  payments,
		shipping:  shipping,
		events:    opts.Events,
		metrics:   opts.Metrics,
		logger:    logger,
		now:       time.Now,
	}

	state, ok, err := store.Load(ctx, sessionID)
	switch {
	case err != nil:
		logger.WithError(err).Warn("failed to load checkout state, falling back to defaults")
		m.state = domain.NewCheckoutState()
		m.recordStarted()
	case ok:
		m.state = state
		logger.WithField("step", state.Step.String()).Debug("checkout state resumed")
		if m.metrics != nil {
			m.metrics.RecordCheckoutResumed()
		}
		m.publish(EventCheckoutResumed, map[string]interface{}{"step": state.Step.String()})
	default:
		m.state = domain.NewCheckoutState()
		// Сохраняем дефолтное состояние сразу, чтобы повторный Resume той же
		// сессии не считался новым чекаутом.
		_ = m.persist(ctx)
		m.recordStarted()
	}
	return m
}

func (m *Machine) recordStarted() {
	if m.metrics != nil {
		m.metrics.RecordCheckoutStarted()
	}
	m.publish(EventCheckoutStarted, nil)
}

// State возвращает копию текущего состояния.
func (m *Machine) State() domain.CheckoutState {
	return m.state
}

// SelectAddress выбирает существующий адрес доставки.
func (m *Machine) SelectAddress(ctx context.Context, addressID string) error {
	if err := m.ensureActive(); err != nil {
		return err
	}
	found := false
	for _, addr := range m.state.NewAddresses {
		if addr.ID == addressID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrAddressRequired
	}
	m.state.SelectedAddressID = addressID
	return m.persist(ctx)
}

// AddAddress валидирует и добавляет новый адрес, сразу выбирая его.
// ID присваивается здесь; default-инвариант коллекции сохраняется.
func (m *Machine) AddAddress(ctx context.Context, addr domain.Address) (domain.Address, error) {
	if err := m.ensureActive(); err != nil {
		return domain.Address{}, err
	}
	if err := addr.Validate(); err != nil {
		return domain.Address{}, err
	}
	addr.ID = uuid.NewString()
	if addr.IsDefault {
		for idx := range m.state.NewAddresses {
			m.state.NewAddresses[idx].IsDefault = false
		}
	}
	m.state.NewAddresses = append(m.state.NewAddresses, addr)
	m.state.SelectedAddressID = addr.ID
	if err := m.persist(ctx); err != nil {
		return domain.Address{}, err
	}
	return addr, nil
}

// SetContactInfo сохраняет контактные email и телефон.
func (m *Machine) SetContactInfo(ctx context.Context, email, phone string) error {
	if err := m.ensureActive(); err != nil {
		return err
	}
	m.state.ContactEmail = email
	m.state.ContactPhone = phone
	return m.persist(ctx)
}

// SelectShipping выбирает способ доставки; стоимость берётся из политики.
func (m *Machine) SelectShipping(ctx context.Context, methodID string) error {
	if err := m.ensureActive(); err != nil {
		return err
	}
	cost, ok := m.shipping.MethodCost(methodID)
	if !ok {
		return domain.ErrUnknownShippingMethod
	}
	m.state.SelectedShipping = methodID
	m.state.ShippingCostMinor = cost
	return m.persist(ctx)
}

// SetDeliveryNotes сохраняет комментарий к доставке с проверкой длины.
func (m *Machine) SetDeliveryNotes(ctx context.Context, notes string) error {
	if err := m.ensureActive(); err != nil {
		return err
	}
	if utf8.RuneCountInString(notes) > domain.MaxDeliveryNotesLen {
		return domain.ErrNotesTooLong
	}
	m.state.DeliveryNotes = notes
	return m.persist(ctx)
}

// Continue продвигает чекаут на следующий шаг, если guard текущего шага пройден.
// При отклонении состояние не меняется и возвращается типизированная
// validation-ошибка, которую UI показывает inline.
func (m *Machine) Continue(ctx context.Context) error {
	if err := m.ensureActive(); err != nil {
		return err
	}

	if err := m.guardContinue(); err != nil {
		if m.metrics != nil {
			m.metrics.RecordStepRejected(m.state.Step.String())
		}
		m.logger.WithError(err).WithField("step", m.state.Step.String()).Debug("step transition rejected")
		return err
	}

	from := m.state.Step
	m.state.Step++
	if err := m.persist(ctx); err != nil {
		m.state.Step = from
		return err
	}

	if m.metrics != nil {
		m.metrics.RecordStepAdvanced(m.state.Step.String())
	}
	m.publish(EventStepAdvanced, map[string]interface{}{
		"from": from.String(),
		"to":   m.state.Step.String(),
	})
	return nil
}

// guardContinue проверяет обязательные поля текущего шага.
func (m *Machine) guardContinue() error {
	switch m.state.Step {
	case domain.StepDelivery:
		if m.state.SelectedAddressID == "" {
			return domain.ErrAddressRequired
		}
		if m.state.ContactEmail == "" {
			return domain.ErrContactEmailRequired
		}
		if m.state.ContactPhone == "" {
			return domain.ErrContactPhoneRequired
		}
		return nil
	case domain.StepShipping:
		if m.state.SelectedShipping == "" {
			return domain.ErrShippingMethodRequired
		}
		return nil
	case domain.StepPayment:
		// Переход 3→4 идёт только через SubmitPayment.
		return domain.ErrPaymentStepRequired
	}
	return domain.ErrCheckoutCompleted
}

// Back возвращает на предыдущий шаг; разрешено только 2→1 и 3→2.
func (m *Machine) Back(ctx context.Context) error {
	if err := m.ensureActive(); err != nil {
		return err
	}
	if m.state.Step == domain.StepDelivery {
		return domain.ErrNoPreviousStep
	}

	from := m.state.Step
	m.state.Step--
	if err := m.persist(ctx); err != nil {
		m.state.Step = from
		return err
	}
	m.publish(EventStepBack, map[string]interface{}{
		"from": from.String(),
		"to":   m.state.Step.String(),
	})
	return nil
}

// SubmitPayment выполняет терминальный переход 3→4: проверяет соглашения,
// проводит платёж и генерирует номер заказа. При любой ошибке состояние
// не меняется, повтор безопасен (частичный заказ не создаётся).
func (m *Machine) SubmitPayment(ctx context.Context, sub domain.PaymentSubmission) (string, error) {
	if err := m.ensureActive(); err != nil {
		return "", err
	}
	if m.state.Step != domain.StepPayment {
		return "", domain.ErrPaymentStepRequired
	}
	if !sub.Agreements.AllAccepted() {
		if m.metrics != nil {
			m.metrics.RecordStepRejected(m.state.Step.String())
		}
		return "", domain.ErrAgreementsRequired
	}

	start := m.now()
	orderRef := uuid.NewString()
	status, err := m.payments.Charge(ctx, orderRef, sub.AmountMinor, sub.Currency, sub.Card)
	if m.metrics != nil {
		m.metrics.RecordPaymentDuration(m.now().Sub(start))
	}
	if err != nil {
		m.failPayment(err)
		return "", fmt.Errorf("payment submission: %w", err)
	}
	if status != domain.PaymentStatusCaptured && status != domain.PaymentStatusAuthorized {
		m.failPayment(domain.ErrPaymentDeclined)
		return "", domain.ErrPaymentDeclined
	}

	orderNumber := m.generateOrderNumber()
	m.state.Step = domain.StepConfirmation
	m.state.OrderNumber = orderNumber

	// Терминальный шаг: сохранённое состояние удаляется ровно один раз.
	if err := m.store.Clear(ctx, m.sessionID); err != nil {
		m.logger.WithError(err).Warn("failed to clear persisted checkout state")
	}

	if m.metrics != nil {
		m.metrics.RecordOrderPlaced()
		m.metrics.RecordStepAdvanced(m.state.Step.String())
	}
	m.publish(EventOrderPlaced, map[string]interface{}{
		"order_number": orderNumber,
		"amount_minor": sub.AmountMinor,
		"currency":     sub.Currency,
	})
	m.logger.WithField("order_number", orderNumber).Info("order placed")
	return orderNumber, nil
}

func (m *Machine) failPayment(cause error) {
	if m.metrics != nil {
		m.metrics.RecordPaymentFailure()
	}
	m.publish(EventPaymentFailed, map[string]interface{}{"reason": cause.Error()})
	m.logger.WithError(cause).Warn("payment submission failed")
}

func (m *Machine) generateOrderNumber() string {
	ms := m.now().UnixMilli()
	return fmt.Sprintf("%s%08d", orderNumberPrefix, ms%100000000)
}

// ensureActive отклоняет мутации завершённого чекаута: шаг 4 терминален.
func (m *Machine) ensureActive() error {
	if m.state.Step == domain.StepConfirmation {
		return domain.ErrCheckoutCompleted
	}
	return nil
}

// persist сохраняет полное состояние после каждой мутации, чтобы перезагрузка
// страницы возвращала пользователя на тот же шаг с теми же данными.
func (m *Machine) persist(ctx context.Context) error {
	if err := m.store.Save(ctx, m.sessionID, m.state); err != nil {
		m.logger.WithError(err).Error("failed to persist checkout state")
		return fmt.Errorf("persist checkout state: %w", err)
	}
	return nil
}

func (m *Machine) publish(eventType string, metadata map[string]interface{}) {
	if m.events == nil {
		return
	}
	m.events.Publish(eventType, m.sessionID, metadata)
}
