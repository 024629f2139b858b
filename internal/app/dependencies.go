package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/config"
	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/service/coupon"
	"github.com/vladislavdragonenkov/checkout/internal/service/payment"
	"github.com/vladislavdragonenkov/checkout/internal/service/pricing"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
	checkoutredis "github.com/vladislavdragonenkov/checkout/internal/storage/redis"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Store    domain.CheckoutStateStore
	Payments domain.PaymentService
	Shipping domain.ShippingPolicy
	Calc     pricing.Calculator
	Coupons  *coupon.Validator
	Pricing  config.Pricing
	Logger   *log.Entry

	closers []func() error
	checks  map[string]health.CheckFunc
}

// NewDependencies создаёт и инициализирует все зависимости приложения.
// NOTE: платёжный сервис — демо-заглушка; в production его заменяет клиент
// реального платёжного провайдера.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	pricingCfg, err := config.LoadPricing(cfg.PricingConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load pricing config: %w", err)
	}

	deps := &Dependencies{
		Payments: payment.NewMockService(),
		Shipping: config.NewShippingTable(pricingCfg.ShippingMethods),
		Calc: pricing.Calculator{
			FreeShippingThresholdMinor: pricingCfg.FreeShippingThresholdMinor,
			ShippingCostMinor:          pricingCfg.ShippingCostMinor,
		},
		Coupons: coupon.NewValidator(pricingCfg.Coupons, logger.WithField("component", "coupon")),
		Pricing: pricingCfg,
		Logger:  logger,
		checks:  make(map[string]health.CheckFunc),
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		deps.Store = memory.NewStateStore()
	case StorageDriverRedis:
		client, err := checkoutredis.Open(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		deps.Store = checkoutredis.NewStateStore(client, cfg.SessionTTL)
		deps.closers = append(deps.closers, client.Close)
		deps.checks["redis"] = func() error { return client.Ping(context.Background()).Err() }
		logger.WithField("addr", cfg.RedisAddr).Info("redis state store initialized")
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("ensure schema: %w", err)
			}
		}
		deps.Store = postgres.NewStateStore(store)
		deps.closers = append(deps.closers, store.Close)
		deps.checks["postgres"] = func() error { return store.Ping(context.Background()) }
		logger.Info("postgres state store initialized")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return deps, nil
}

// RegisterHealthChecks вешает проверки хранилищ на health handler.
func (d *Dependencies) RegisterHealthChecks(h *health.Handler) {
	for name, fn := range d.checks {
		h.Register(name, fn)
	}
}

// Close освобождает внешние подключения в обратном порядке создания.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.WithError(err).Warn("failed to close dependency")
		}
	}
}
