package components

import (
	repo_impl "giftcard-fulfillment/internal/infra/repository"
	"giftcard-fulfillment/internal/infra/uow"
	"giftcard-fulfillment/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			repo_impl.NewGiftCodeRepository,
			fx.As(new(usecase.GiftCodeRepository)),
		),
		fx.Annotate(
			repo_impl.NewAuditRepository,
			fx.As(new(usecase.AuditRepository)),
		),
	),
)
