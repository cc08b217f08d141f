package components

import (
	"giftcard-fulfillment/internal/infra/gateway"
	"giftcard-fulfillment/internal/infra/pdf"
	"giftcard-fulfillment/internal/pkg/config"
	"giftcard-fulfillment/internal/usecase"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewOrderNotes,
			fx.As(new(usecase.OrderNotes)),
		),
		fx.Annotate(
			NewEmailSender,
			fx.As(new(usecase.EmailSender)),
		),
		fx.Annotate(
			NewVoucherRenderer,
			fx.As(new(usecase.VoucherRenderer)),
		),
	),
)

func NewOrderNotes(cfg config.Config) *gateway.IdosellClient {
	return gateway.NewIdosellClient(cfg.Idosell)
}

func NewEmailSender(cfg config.Config) *gateway.SendGridSender {
	return gateway.NewSendGridSender(cfg.SendGrid)
}

func NewVoucherRenderer(cfg config.Config) *pdf.Renderer {
	return pdf.NewRenderer(cfg.GiftCard.Currency)
}
