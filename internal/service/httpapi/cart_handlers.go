package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// cartResponse — корзина вместе с пересчитанными суммами.
// Суммы всегда вычисляются заново: ничего не кэшируется.
type cartResponse struct {
	Items    []domain.CartItem  `json:"items"`
	Selected []string           `json:"selected"`
	Coupon   *domain.Coupon     `json:"coupon,omitempty"`
	Totals   domain.OrderTotals `json:"totals"`
}

func (s *Service) cartResponse(cart *domain.Cart) cartResponse {
	selected := make([]string, 0, len(cart.Selected))
	for _, item := range cart.Items {
		if cart.Selected[item.ID] {
			selected = append(selected, item.ID)
		}
	}
	return cartResponse{
		Items:    cart.Items,
		Selected: selected,
		Coupon:   cart.Coupon,
		Totals:   s.calc.Totals(cart.Items, cart.Selected, cart.Coupon),
	}
}

func (s *Service) handleGetCart(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	s.writeJSON(w, http.StatusOK, s.cartResponse(s.cart(sid)))
}

func (s *Service) handleAddItem(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var item domain.CartItem
	if !s.decode(w, r, &item) {
		return
	}
	if item.ID == "" || item.Name == "" || item.PriceMinor < 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item id, name and price are required"})
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart := s.cart(sid)
	cart.Add(item)
	s.writeJSON(w, http.StatusCreated, s.cartResponse(cart))
}

func (s *Service) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		Quantity int `json:"quantity"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	cart := s.cart(sid)
	if err := cart.UpdateQuantity(mux.Vars(r)["id"], body.Quantity); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.cartResponse(cart))
}

func (s *Service) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	cart := s.cart(sid)
	if err := cart.Remove(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.cartResponse(cart))
}

func (s *Service) handleSelection(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		ID  string `json:"id,omitempty"`
		All *bool  `json:"all,omitempty"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	cart := s.cart(sid)
	switch {
	case body.All != nil && *body.All:
		cart.SelectAll()
	case body.All != nil:
		cart.DeselectAll()
	default:
		if err := cart.ToggleSelect(body.ID); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, s.cartResponse(cart))
}

func (s *Service) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	var body struct {
		Code string `json:"code"`
	}
	if !s.decode(w, r, &body) {
		return
	}

	cart := s.cart(sid)
	subtotal := s.calc.Subtotal(cart.Items, cart.Selected)
	result, err := s.coupons.Validate(r.Context(), body.Code, subtotal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if result.Success {
		cart.ApplyCoupon(*result.Coupon)
		if s.metrics != nil {
			s.metrics.RecordCouponApplied()
		}
	} else if s.metrics != nil {
		s.metrics.RecordCouponRejected()
	}

	// Невалидный код — не ошибка транспорта: форма показывает message inline.
	s.writeJSON(w, http.StatusOK, struct {
		Success       bool               `json:"success"`
		Message       string             `json:"message"`
		DiscountMinor int64              `json:"discount_minor,omitempty"`
		Totals        domain.OrderTotals `json:"totals"`
	}{
		Success:       result.Success,
		Message:       result.Message,
		DiscountMinor: result.DiscountMinor,
		Totals:        s.calc.Totals(cart.Items, cart.Selected, cart.Coupon),
	})
}

func (s *Service) handleRemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	unlock := s.lockSession(sid)
	defer unlock()

	cart := s.cart(sid)
	cart.RemoveCoupon()
	s.writeJSON(w, http.StatusOK, s.cartResponse(cart))
}
