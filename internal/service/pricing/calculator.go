package pricing

import (
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Calculator вычисляет суммы заказа из позиций корзины и применённого купона.
// Чистая функция состояния: без побочных эффектов, без кэширования —
// суммы пересчитываются при каждом обращении.
type Calculator struct {
	// FreeShippingThresholdMinor — subtotal, начиная с которого доставка бесплатна.
	FreeShippingThresholdMinor int64
	// ShippingCostMinor — фиксированная стоимость доставки ниже порога.
	ShippingCostMinor int64
}

// Subtotal суммирует price*qty строго по выбранным позициям.
// Невыбранные позиции на результат не влияют.
func (c Calculator) Subtotal(items []domain.CartItem, selected map[string]bool) int64 {
	var subtotal int64
	for _, item := range items {
		if !selected[item.ID] {
			continue
		}
		subtotal += item.PriceMinor * int64(item.Quantity)
	}
	return subtotal
}

// Shipping возвращает 0 при subtotal >= порога, иначе фиксированную стоимость.
// Пустая корзина даёт subtotal 0 < порога, то есть полную стоимость доставки —
// поведение витрины, закреплённое тестом.
func (c Calculator) Shipping(subtotalMinor int64) int64 {
	if subtotalMinor >= c.FreeShippingThresholdMinor {
		return 0
	}
	return c.ShippingCostMinor
}

// Totals считает суммы корзины: порог бесплатной доставки + купон.
// Скидка ограничена subtotal (см. Coupon.DiscountFor), поэтому
// total = subtotal + shipping - discount всегда неотрицателен.
func (c Calculator) Totals(items []domain.CartItem, selected map[string]bool, coupon *domain.Coupon) domain.OrderTotals {
	subtotal := c.Subtotal(items, selected)
	return c.totals(subtotal, c.Shipping(subtotal), coupon)
}

// CheckoutTotals считает суммы для страницы чекаута, где стоимость доставки
// определяется выбранным способом, а не порогом.
func (c Calculator) CheckoutTotals(items []domain.CartItem, selected map[string]bool, coupon *domain.Coupon, shippingMinor int64) domain.OrderTotals {
	subtotal := c.Subtotal(items, selected)
	return c.totals(subtotal, shippingMinor, coupon)
}

func (c Calculator) totals(subtotalMinor, shippingMinor int64, coupon *domain.Coupon) domain.OrderTotals {
	var discount int64
	if coupon != nil {
		discount = coupon.DiscountFor(subtotalMinor)
	}
	return domain.OrderTotals{
		SubtotalMinor: subtotalMinor,
		ShippingMinor: shippingMinor,
		DiscountMinor: discount,
		TotalMinor:    subtotalMinor + shippingMinor - discount,
	}
}

// FormatMinor отображает сумму в минимальных единицах как ₺X.YY.
func FormatMinor(amountMinor int64) string {
	sign := ""
	if amountMinor < 0 {
		sign = "-"
		amountMinor = -amountMinor
	}
	return fmt.Sprintf("%s₺%d.%02d", sign, amountMinor/100, amountMinor%100)
}
