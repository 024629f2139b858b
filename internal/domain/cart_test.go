package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// helper для позиции с известным остатком.
func makeItem(id string, priceMinor int64, qty, stock int) domain.CartItem {
	return domain.CartItem{
		ID:         id,
		Name:       "item " + id,
		PriceMinor: priceMinor,
		Quantity:   qty,
		Stock:      stock,
	}
}

func TestCartAdd_SelectsNewItem(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	if !cart.Selected["chair"] {
		t.Fatal("added item should be selected")
	}
}

func TestCartAdd_MergesQuantities(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 2, 10))
	cart.Add(makeItem("chair", 10000, 3, 10))

	if len(cart.Items) != 1 {
		t.Fatalf("expected merged item, got %d items", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestCartAdd_MergeClampsToStock(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 3, 4))
	cart.Add(makeItem("chair", 10000, 3, 4))

	if cart.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity clamped to stock 4, got %d", cart.Items[0].Quantity)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))

	cases := []struct {
		name    string
		id      string
		qty     int
		wantErr error
		wantQty int
	}{
		{name: "valid", id: "chair", qty: 3, wantQty: 3},
		{name: "clamped to stock", id: "chair", qty: 99, wantQty: 5},
		{name: "zero rejected", id: "chair", qty: 0, wantErr: domain.ErrQuantityInvalid},
		{name: "negative rejected", id: "chair", qty: -1, wantErr: domain.ErrQuantityInvalid},
		{name: "unknown item", id: "ghost", qty: 2, wantErr: domain.ErrItemNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := cart.UpdateQuantity(tc.id, tc.qty)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cart.Items[0].Quantity != tc.wantQty {
				t.Fatalf("expected quantity %d, got %d", tc.wantQty, cart.Items[0].Quantity)
			}
		})
	}
}

func TestCartUpdateQuantity_UnknownStockNotClamped(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("rug", 5000, 1, 0))

	if err := cart.UpdateQuantity("rug", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Items[0].Quantity != 50 {
		t.Fatalf("stock 0 means unknown, expected quantity 50, got %d", cart.Items[0].Quantity)
	}
}

func TestCartRemove(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))
	cart.Add(makeItem("table", 50000, 1, 5))

	if err := cart.Remove("chair"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != "table" {
		t.Fatalf("expected only table to remain, got %+v", cart.Items)
	}
	if cart.Selected["chair"] {
		t.Fatal("removed item should no longer be selected")
	}

	if err := cart.Remove("chair"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCartToggleSelect(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))

	if err := cart.ToggleSelect("chair"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Selected["chair"] {
		t.Fatal("toggle should deselect a selected item")
	}

	if err := cart.ToggleSelect("chair"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.Selected["chair"] {
		t.Fatal("toggle should select a deselected item")
	}

	if err := cart.ToggleSelect("ghost"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCartSelectAllDeselectAll(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))
	cart.Add(makeItem("table", 50000, 1, 5))
	cart.DeselectAll()

	if cart.SelectedCount() != 0 {
		t.Fatalf("expected 0 selected, got %d", cart.SelectedCount())
	}

	cart.SelectAll()
	if cart.SelectedCount() != 2 {
		t.Fatalf("expected 2 selected, got %d", cart.SelectedCount())
	}
}

func TestCartRemoveSelected(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))
	cart.Add(makeItem("table", 50000, 1, 5))
	cart.Add(makeItem("lamp", 3000, 1, 5))
	if err := cart.ToggleSelect("lamp"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed := cart.RemoveSelected()
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != "lamp" {
		t.Fatalf("expected only unselected lamp to remain, got %+v", cart.Items)
	}
	if cart.SelectedCount() != 0 {
		t.Fatal("selection should be empty after RemoveSelected")
	}
}

func TestCartApplyCoupon_ReplacesPrevious(t *testing.T) {
	cart := domain.NewCart()
	cart.ApplyCoupon(domain.Coupon{Code: "SAVE10", Kind: domain.CouponKindPercent, Value: 10})
	cart.ApplyCoupon(domain.Coupon{Code: "FLAT50", Kind: domain.CouponKindFlat, Value: 5000})

	if cart.Coupon == nil || cart.Coupon.Code != "FLAT50" {
		t.Fatalf("expected FLAT50 to replace SAVE10, got %+v", cart.Coupon)
	}

	cart.RemoveCoupon()
	if cart.Coupon != nil {
		t.Fatal("expected coupon to be removed")
	}
}

func TestCartClear(t *testing.T) {
	cart := domain.NewCart()
	cart.Add(makeItem("chair", 10000, 1, 5))
	cart.ApplyCoupon(domain.Coupon{Code: "SAVE10", Kind: domain.CouponKindPercent, Value: 10})

	cart.Clear()
	if len(cart.Items) != 0 || cart.SelectedCount() != 0 || cart.Coupon != nil {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}
