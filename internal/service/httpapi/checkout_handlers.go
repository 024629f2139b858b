package httpapi

import (
	"net/http"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// checkoutResponse — состояние чекаута с суммами по выбранному способу доставки.
type checkoutResponse struct {
	State  domain.CheckoutState `json:"state"`
	Totals domain.OrderTotals   `json:"totals"`
}

func (s *Service) checkoutResponse(sid string, state domain.CheckoutState) checkoutResponse {
	cart := s.cart(sid)
	return checkoutResponse{
		State:  state,
		Totals: s.calc.CheckoutTotals(cart.Items, cart.Selected, cart.Coupon, state.ShippingCostMinor),
	}
}

func (s *Service) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	m := s.machine(r, sid)
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var addr domain.Address
	if !s.decode(w, r, &addr) {
		return
	}

	m := s.machine(r, sid)
	created, err := m.AddAddress(r.Context(), addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, struct {
		Address domain.Address `json:"address"`
		checkoutResponse
	}{created, s.checkoutResponse(sid, m.State())})
}

func (s *Service) handleSelectAddress(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	m := s.machine(r, sid)
	if err := m.SelectAddress(r.Context(), body.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handleContact(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	m := s.machine(r, sid)
	if err := m.SetContactInfo(r.Context(), body.Email, body.Phone); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handleShipping(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		Method string `json:"method"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	m := s.machine(r, sid)
	if err := m.SelectShipping(r.Context(), body.Method); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handleNotes(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		Notes string `json:"notes"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	m := s.machine(r, sid)
	if err := m.SetDeliveryNotes(r.Context(), body.Notes); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handleContinue(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	m := s.machine(r, sid)
	if err := m.Continue(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handleBack(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	m := s.machine(r, sid)
	if err := m.Back(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutResponse(sid, m.State()))
}

func (s *Service) handlePayment(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		Card       domain.PaymentCard `json:"card"`
		Agreements domain.Agreements  `json:"agreements"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	m := s.machine(r, sid)
	cart := s.cart(sid)
	// Сумма к оплате считается на сервере из текущей корзины и выбранной доставки.
	totals := s.calc.CheckoutTotals(cart.Items, cart.Selected, cart.Coupon, m.State().ShippingCostMinor)

	orderNumber, err := m.SubmitPayment(r.Context(), domain.PaymentSubmission{
		Card:        body.Card,
		Agreements:  body.Agreements,
		AmountMinor: totals.TotalMinor,
		Currency:    s.currency,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Заказ размещён: выбранные позиции покидают корзину.
	cart.RemoveSelected()
	cart.RemoveCoupon()
	s.evictSession(sid)

	s.writeJSON(w, http.StatusOK, struct {
		OrderNumber string               `json:"order_number"`
		State       domain.CheckoutState `json:"state"`
		Totals      domain.OrderTotals   `json:"totals"`
	}{orderNumber, m.State(), totals})
}
