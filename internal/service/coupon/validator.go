package coupon

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/config"
	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/service/pricing"
)

// Result — ответ валидатора в формате, который ожидает форма купона:
// флаг успеха, человекочитаемое сообщение и вычисленная скидка.
type Result struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	DiscountMinor int64          `json:"discount_minor,omitempty"`
	Coupon        *domain.Coupon `json:"coupon,omitempty"`
}

// Validator сопоставляет код купона с правилом из инжектированной таблицы.
// Чистая функция (code, subtotal) → discount; идемпотентен.
type Validator struct {
	rules  map[string]config.CouponRule
	logger *log.Entry
}

// NewValidator создаёт валидатор поверх таблицы правил.
func NewValidator(rules map[string]config.CouponRule, logger *log.Entry) *Validator {
	if logger == nil {
		logger = log.WithField("component", "coupon")
	}
	return &Validator{rules: rules, logger: logger}
}

// Validate нормализует код, ищет правило и вычисляет скидку от subtotal.
// Неизвестный код — не ошибка транспорта, а Success=false с generic-сообщением.
func (v *Validator) Validate(ctx context.Context, code string, subtotalMinor int64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	normalized := domain.NormalizeCouponCode(code)
	rule, ok := v.rules[normalized]
	if !ok {
		v.logger.WithField("code", normalized).Debug("unknown coupon code")
		return Result{
			Success: false,
			Message: "Invalid coupon code. Please try again.",
		}, nil
	}

	coupon := domain.Coupon{Code: normalized, Kind: rule.Kind, Value: rule.Value}
	discount := coupon.DiscountFor(subtotalMinor)

	v.logger.WithFields(log.Fields{
		"code":     normalized,
		"discount": discount,
	}).Debug("coupon validated")

	return Result{
		Success:       true,
		Message:       fmt.Sprintf("Coupon %q applied successfully! You saved %s", normalized, pricing.FormatMinor(discount)),
		DiscountMinor: discount,
		Coupon:        &coupon,
	}, nil
}
