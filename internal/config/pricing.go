package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// CouponRule описывает одно правило таблицы купонов.
type CouponRule struct {
	Kind  domain.CouponKind `mapstructure:"kind"`
	Value int64             `mapstructure:"value"`
}

// ShippingMethod — один способ доставки из таблицы.
type ShippingMethod struct {
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	CostMinor int64  `mapstructure:"cost_minor"`
}

// Pricing собирает ценовые таблицы, которые витрина раньше держала inline-литералами:
// порог бесплатной доставки, фиксированную стоимость, способы доставки и купоны.
// Таблицы инжектируются в калькулятор/валидатор, поэтому их можно заменить
// server-driven источником, не трогая state machine.
type Pricing struct {
	Currency                   string                `mapstructure:"currency"`
	FreeShippingThresholdMinor int64                 `mapstructure:"free_shipping_threshold_minor"`
	ShippingCostMinor          int64                 `mapstructure:"shipping_cost_minor"`
	ShippingMethods            []ShippingMethod      `mapstructure:"shipping_methods"`
	Coupons                    map[string]CouponRule `mapstructure:"coupons"`
}

// DefaultPricing возвращает демо-таблицы витрины.
func DefaultPricing() Pricing {
	return Pricing{
		Currency:                   "TRY",
		FreeShippingThresholdMinor: 200000,
		ShippingCostMinor:          5000,
		ShippingMethods: []ShippingMethod{
			{ID: "free", Name: "Free Shipping", CostMinor: 0},
			{ID: "standard", Name: "Standard Shipping", CostMinor: 2990},
			{ID: "express", Name: "Express Shipping", CostMinor: 4990},
		},
		Coupons: map[string]CouponRule{
			"SAVE10":  {Kind: domain.CouponKindPercent, Value: 10},
			"SAVE20":  {Kind: domain.CouponKindPercent, Value: 20},
			"FLAT50":  {Kind: domain.CouponKindFlat, Value: 5000},
			"FLAT100": {Kind: domain.CouponKindFlat, Value: 10000},
		},
	}
}

// LoadPricing читает таблицы из YAML-файла через viper, накладывая значения
// поверх демо-дефолтов. Пустой путь означает «только дефолты».
func LoadPricing(path string) (Pricing, error) {
	pricing := DefaultPricing()
	if path == "" {
		return pricing, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("currency", pricing.Currency)
	v.SetDefault("free_shipping_threshold_minor", pricing.FreeShippingThresholdMinor)
	v.SetDefault("shipping_cost_minor", pricing.ShippingCostMinor)

	if err := v.ReadInConfig(); err != nil {
		return Pricing{}, fmt.Errorf("read pricing config %s: %w", path, err)
	}
	if err := v.Unmarshal(&pricing); err != nil {
		return Pricing{}, fmt.Errorf("unmarshal pricing config: %w", err)
	}
	if len(pricing.ShippingMethods) == 0 {
		pricing.ShippingMethods = DefaultPricing().ShippingMethods
	}
	if len(pricing.Coupons) == 0 {
		pricing.Coupons = DefaultPricing().Coupons
	}
	// Коды купонов в таблице всегда в верхнем регистре.
	normalized := make(map[string]CouponRule, len(pricing.Coupons))
	for code, rule := range pricing.Coupons {
		normalized[domain.NormalizeCouponCode(code)] = rule
	}
	pricing.Coupons = normalized
	return pricing, nil
}

// ShippingTable реализует domain.ShippingPolicy поверх таблицы способов доставки.
type ShippingTable struct {
	methods map[string]ShippingMethod
}

// NewShippingTable строит индекс по идентификаторам способов доставки.
func NewShippingTable(methods []ShippingMethod) *ShippingTable {
	index := make(map[string]ShippingMethod, len(methods))
	for _, m := range methods {
		index[m.ID] = m
	}
	return &ShippingTable{methods: index}
}

// MethodCost возвращает стоимость способа; ok=false для неизвестного ID.
func (t *ShippingTable) MethodCost(id string) (int64, bool) {
	m, ok := t.methods[id]
	if !ok {
		return 0, false
	}
	return m.CostMinor, true
}

var _ domain.ShippingPolicy = (*ShippingTable)(nil)
