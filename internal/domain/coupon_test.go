package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestNormalizeCouponCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"save10", "SAVE10"},
		{"  Save10  ", "SAVE10"},
		{"FLAT50", "FLAT50"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := domain.NormalizeCouponCode(tc.in); got != tc.want {
			t.Fatalf("NormalizeCouponCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCouponDiscountFor(t *testing.T) {
	cases := []struct {
		name     string
		coupon   domain.Coupon
		subtotal int64
		want     int64
	}{
		{
			name:     "percent",
			coupon:   domain.Coupon{Kind: domain.CouponKindPercent, Value: 10},
			subtotal: 20000,
			want:     2000,
		},
		{
			name:     "percent rounds down",
			coupon:   domain.Coupon{Kind: domain.CouponKindPercent, Value: 10},
			subtotal: 999,
			want:     99,
		},
		{
			name:     "flat",
			coupon:   domain.Coupon{Kind: domain.CouponKindFlat, Value: 5000},
			subtotal: 20000,
			want:     5000,
		},
		{
			name:     "flat capped at subtotal",
			coupon:   domain.Coupon{Kind: domain.CouponKindFlat, Value: 10000},
			subtotal: 3000,
			want:     3000,
		},
		{
			name:     "zero subtotal",
			coupon:   domain.Coupon{Kind: domain.CouponKindFlat, Value: 5000},
			subtotal: 0,
			want:     0,
		},
		{
			name:     "negative subtotal",
			coupon:   domain.Coupon{Kind: domain.CouponKindPercent, Value: 10},
			subtotal: -100,
			want:     0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.coupon.DiscountFor(tc.subtotal); got != tc.want {
				t.Fatalf("DiscountFor(%d) = %d, want %d", tc.subtotal, got, tc.want)
			}
		})
	}
}
