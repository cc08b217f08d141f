package components

import (
	"fmt"

	"giftcard-fulfillment/internal/domain/order"
	"giftcard-fulfillment/internal/pkg/clock"
	"giftcard-fulfillment/internal/pkg/config"
	"giftcard-fulfillment/internal/pkg/jwt"
	"giftcard-fulfillment/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewClassifierConfig,
		usecase.NewCodeAllocator,
		usecase.NewPoolUseCase,
		NewAuthUseCase,
		NewFulfillmentUseCase,
	),
)

// NewClassifierConfig derives variant labels from the configured face values.
// The shop names gift-card variants after the value plus the currency, so
// "100 zł" identifies the 100 denomination.
func NewClassifierConfig(cfg config.Config) order.Config {
	denominations := make([]order.Denomination, 0, len(cfg.GiftCard.Denominations))
	for _, value := range cfg.GiftCard.Denominations {
		denominations = append(denominations, order.Denomination{
			Value: value,
			Label: fmt.Sprintf("%d %s", value, cfg.GiftCard.Currency),
		})
	}
	return order.Config{
		GiftProductID: cfg.GiftCard.ProductID,
		Denominations: denominations,
	}
}

func NewAuthUseCase(cfg config.Config, jwtService *jwt.Service) usecase.AuthUseCase {
	return usecase.NewAuthUseCase(cfg.Admin, jwtService)
}

func NewFulfillmentUseCase(
	cfg config.Config,
	classifierCfg order.Config,
	allocator usecase.CodeAllocator,
	renderer usecase.VoucherRenderer,
	email usecase.EmailSender,
	notes usecase.OrderNotes,
	uow usecase.UnitOfWork,
	auditRepo usecase.AuditRepository,
	clk clock.Clock,
) usecase.FulfillmentUseCase {
	return usecase.NewFulfillmentUseCase(
		classifierCfg,
		cfg.GiftCard.Currency,
		allocator,
		renderer,
		email,
		notes,
		uow,
		auditRepo,
		clk,
	)
}
