package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/service/coupon"
	"github.com/vladislavdragonenkov/checkout/internal/service/pricing"
)

// sessionCookie идентифицирует корзину и чекаут одного покупателя.
const sessionCookie = "checkout_session"

// Service — REST-поверхность ядра чекаута: корзина, купоны и state machine.
// Мутации одной сессии строго последовательны (per-session lock) — UI
// блокирует управление на время запроса, сервер закрепляет это же свойство.
type Service struct {
	store    domain.CheckoutStateStore
	payments domain.PaymentService
	shipping domain.ShippingPolicy
	calc     pricing.Calculator
	coupons  *coupon.Validator
	events   domain.EventPublisher
	metrics  *metrics.CheckoutMetrics
	currency string
	logger   *log.Entry

	mu    sync.Mutex
	carts map[string]*domain.Cart
	locks map[string]*sync.Mutex
}

// Options — необязательные зависимости сервиса.
type Options struct {
	Events  domain.EventPublisher
	Metrics *metrics.CheckoutMetrics
	Logger  *log.Entry
}

// NewService собирает REST-сервис чекаута.
func NewService(store domain.CheckoutStateStore, payments domain.PaymentService, shipping domain.ShippingPolicy, calc pricing.Calculator, coupons *coupon.Validator, currency string, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &Service{
		store:    store,
		payments: payments,
		shipping: shipping,
		calc:     calc,
		coupons:  coupons,
		events:   opts.Events,
		metrics:  opts.Metrics,
		currency: currency,
		logger:   logger,
		carts:    make(map[string]*domain.Cart),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Router строит маршруты API.
func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()

	cart := r.PathPrefix("/api/v1/cart").Subrouter()
	cart.HandleFunc("/", s.handleGetCart).Methods(http.MethodGet)
	cart.HandleFunc("/items/", s.handleAddItem).Methods(http.MethodPost)
	cart.HandleFunc("/items/{id}/", s.handleUpdateItem).Methods(http.MethodPatch)
	cart.HandleFunc("/items/{id}/", s.handleRemoveItem).Methods(http.MethodDelete)
	cart.HandleFunc("/selection/", s.handleSelection).Methods(http.MethodPost)
	cart.HandleFunc("/coupon/", s.handleApplyCoupon).Methods(http.MethodPost)
	cart.HandleFunc("/coupon/", s.handleRemoveCoupon).Methods(http.MethodDelete)

	co := r.PathPrefix("/api/v1/checkout").Subrouter()
	co.HandleFunc("/", s.handleGetCheckout).Methods(http.MethodGet)
	co.HandleFunc("/addresses/", s.handleAddAddress).Methods(http.MethodPost)
	co.HandleFunc("/address/", s.handleSelectAddress).Methods(http.MethodPost)
	co.HandleFunc("/contact/", s.handleContact).Methods(http.MethodPost)
	co.HandleFunc("/shipping/", s.handleShipping).Methods(http.MethodPost)
	co.HandleFunc("/notes/", s.handleNotes).Methods(http.MethodPost)
	co.HandleFunc("/continue/", s.handleContinue).Methods(http.MethodPost)
	co.HandleFunc("/back/", s.handleBack).Methods(http.MethodPost)
	co.HandleFunc("/payment/", s.handlePayment).Methods(http.MethodPost)

	return r
}

// session возвращает id сессии из cookie, создавая её при первом обращении.
func (s *Service) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// lockSession сериализует мутации одной сессии.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// cart возвращает корзину сессии, создавая пустую при необходимости.
func (s *Service) cart(sessionID string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = domain.NewCart()
		s.carts[sessionID] = c
	}
	return c
}

// evictSession убирает опустевшую корзину и её мьютекс из внутренних карт
// после размещения заказа, иначе завершённые сессии копятся бессрочно.
// Корзина с невыбранными позициями остаётся — в ней живые данные.
// Вызывается под session lock; мутации одной сессии строго последовательны,
// поэтому ожидающих на удаляемом мьютексе нет.
func (s *Service) evictSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok && len(c.Items) > 0 {
		return
	}
	delete(s.carts, sessionID)
	delete(s.locks, sessionID)
}

// machine восстанавливает state machine чекаута для сессии.
func (s *Service) machine(r *http.Request, sessionID string) *checkout.Machine {
	return checkout.Resume(r.Context(), sessionID, s.store, s.payments, s.shipping, checkout.Options{
		Events:  s.events,
		Metrics: s.metrics,
		Logger:  s.logger,
	})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Warn("failed to encode response")
	}
}

// writeError транслирует доменные ошибки в HTTP-статусы контракта API:
// guard-ошибки валидации — 422, конфликт состояния — 409, отклонённый
// платёж — 402, остальное — 500.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidationError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCheckoutCompleted),
		errors.Is(err, domain.ErrNoPreviousStep),
		errors.Is(err, domain.ErrPaymentStepRequired):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPaymentDeclined), errors.Is(err, domain.ErrPaymentTemporary):
		status = http.StatusPaymentRequired
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}
