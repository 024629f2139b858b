package domain

import "time"

// ItemVariant описывает выбранный вариант товара (цвет/размер).
type ItemVariant struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// CartItem представляет одну позицию корзины.
type CartItem struct {
	// ID позиции нужен для однозначной идентификации в корзине и при выборе.
	ID string `json:"id"`
	// Name — отображаемое название товара.
	Name string `json:"name"`
	// Slug — URL-идентификатор карточки товара.
	Slug string `json:"slug,omitempty"`
	// SKU — внешний артикул товара.
	SKU string `json:"sku,omitempty"`
	// PriceMinor — цена за единицу в минимальных денежных единицах (куруши).
	PriceMinor int64 `json:"price_minor"`
	// OriginalPriceMinor — цена до скидки, 0 если скидки нет.
	OriginalPriceMinor int64 `json:"original_price_minor,omitempty"`
	// Quantity — количество единиц, всегда >= 1.
	Quantity int `json:"quantity"`
	// Variant — выбранный вариант, опционально.
	Variant *ItemVariant `json:"variant,omitempty"`
	// Designer — студия/коллекция, опционально.
	Designer string `json:"designer,omitempty"`
	// Stock — доступный остаток; 0 означает «остаток неизвестен», clamp не применяется.
	Stock int `json:"stock"`
	// CreatedAt фиксирует момент добавления позиции в корзину.
	CreatedAt time.Time `json:"created_at"`
}

// ClampQuantity приводит количество к допустимому диапазону:
// не меньше 1 и не больше остатка, когда остаток известен (> 0).
func (i *CartItem) ClampQuantity(qty int) int {
	if qty < 1 {
		qty = 1
	}
	if i.Stock > 0 && qty > i.Stock {
		qty = i.Stock
	}
	return qty
}

// Cart агрегирует позиции, множество выбранных позиций и применённый купон.
// Инвариант: applied-купон не более одного; новый купон вытесняет прежний.
type Cart struct {
	Items    []CartItem      `json:"items"`
	Selected map[string]bool `json:"selected"`
	Coupon   *Coupon         `json:"coupon,omitempty"`
}

// NewCart возвращает пустую корзину с инициализированным множеством выбора.
func NewCart() *Cart {
	return &Cart{Selected: make(map[string]bool)}
}

// Add добавляет позицию в корзину и сразу выбирает её.
// Если позиция с таким ID уже есть, количества складываются (с clamp по остатку).
func (c *Cart) Add(item CartItem) {
	if c.Selected == nil {
		c.Selected = make(map[string]bool)
	}
	for idx := range c.Items {
		if c.Items[idx].ID == item.ID {
			existing := &c.Items[idx]
			existing.Quantity = existing.ClampQuantity(existing.Quantity + item.Quantity)
			c.Selected[item.ID] = true
			return
		}
	}
	item.Quantity = item.ClampQuantity(item.Quantity)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	c.Items = append(c.Items, item)
	c.Selected[item.ID] = true
}

// UpdateQuantity выставляет количество позиции, применяя clamp по остатку.
func (c *Cart) UpdateQuantity(id string, qty int) error {
	if qty < 1 {
		return ErrQuantityInvalid
	}
	for idx := range c.Items {
		if c.Items[idx].ID == id {
			c.Items[idx].Quantity = c.Items[idx].ClampQuantity(qty)
			return nil
		}
	}
	return ErrItemNotFound
}

// Remove удаляет позицию и снимает её выбор.
func (c *Cart) Remove(id string) error {
	for idx := range c.Items {
		if c.Items[idx].ID == id {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			delete(c.Selected, id)
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveSelected удаляет все выбранные позиции и возвращает их количество.
func (c *Cart) RemoveSelected() int {
	if len(c.Selected) == 0 {
		return 0
	}
	kept := c.Items[:0]
	removed := 0
	for _, item := range c.Items {
		if c.Selected[item.ID] {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	c.Selected = make(map[string]bool)
	return removed
}

// Clear опустошает корзину целиком, включая купон.
func (c *Cart) Clear() {
	c.Items = nil
	c.Selected = make(map[string]bool)
	c.Coupon = nil
}

// ToggleSelect инвертирует выбор позиции.
func (c *Cart) ToggleSelect(id string) error {
	for idx := range c.Items {
		if c.Items[idx].ID == id {
			if c.Selected == nil {
				c.Selected = make(map[string]bool)
			}
			if c.Selected[id] {
				delete(c.Selected, id)
			} else {
				c.Selected[id] = true
			}
			return nil
		}
	}
	return ErrItemNotFound
}

// SelectAll выбирает все позиции корзины.
func (c *Cart) SelectAll() {
	c.Selected = make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		c.Selected[item.ID] = true
	}
}

// DeselectAll снимает выбор со всех позиций.
func (c *Cart) DeselectAll() {
	c.Selected = make(map[string]bool)
}

// SelectedCount возвращает число выбранных позиций.
func (c *Cart) SelectedCount() int {
	return len(c.Selected)
}

// ApplyCoupon применяет купон, заменяя прежний (инвариант «не более одного»).
func (c *Cart) ApplyCoupon(coupon Coupon) {
	c.Coupon = &coupon
}

// RemoveCoupon снимает применённый купон.
func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
}
