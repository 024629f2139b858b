package domain

import "strings"

// CouponKind определяет способ вычисления скидки.
type CouponKind string

const (
	// CouponKindPercent — скидка в процентах от subtotal выбранных позиций.
	CouponKindPercent CouponKind = "percent"
	// CouponKindFlat — фиксированная скидка в минимальных единицах.
	CouponKindFlat CouponKind = "flat"
)

// Coupon представляет применённый к корзине купон.
// Скидка не хранится, а каждый раз вычисляется от текущего subtotal,
// поэтому купон автоматически переоценивается при изменении корзины.
type Coupon struct {
	// Code — нормализованный (uppercase) код купона.
	Code string `json:"code"`
	// Kind — процентная или фиксированная скидка.
	Kind CouponKind `json:"kind"`
	// Value — процент (для percent) или сумма в минимальных единицах (для flat).
	Value int64 `json:"value"`
}

// NormalizeCouponCode приводит код к каноническому виду: trim + uppercase.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountFor вычисляет скидку от subtotal в минимальных единицах.
// Скидка никогда не превышает subtotal: итог заказа не может уйти в минус.
func (c Coupon) DiscountFor(subtotalMinor int64) int64 {
	if subtotalMinor <= 0 {
		return 0
	}
	var discount int64
	switch c.Kind {
	case CouponKindPercent:
		discount = subtotalMinor * c.Value / 100
	case CouponKindFlat:
		discount = c.Value
	}
	if discount > subtotalMinor {
		discount = subtotalMinor
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
