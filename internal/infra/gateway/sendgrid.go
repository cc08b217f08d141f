package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"giftcard-fulfillment/internal/pkg/config"
	"giftcard-fulfillment/internal/pkg/errs"
	"giftcard-fulfillment/internal/usecase"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	cfg    config.SendGridConfig
	client *sendgrid.Client
}

func NewSendGridSender(cfg config.SendGridConfig) *SendGridSender {
	return &SendGridSender{
		cfg:    cfg,
		client: sendgrid.NewSendClient(cfg.APIKey),
	}
}

func (s *SendGridSender) Deliver(ctx context.Context, to, subject, body string, attachments []usecase.Attachment) error {
	if s.cfg.APIKey == "" {
		return errs.New("SENDGRID_API_KEY is not set")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", body))

	for _, a := range attachments {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		attachment.SetType("application/pdf")
		attachment.SetFilename(a.Filename)
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return errs.Wrap(err, "sendgrid request failed")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errs.New(fmt.Sprintf("sendgrid returned HTTP %d: %s", resp.StatusCode, resp.Body))
	}

	slog.Info("gift card email sent", "to", to, "attachments", len(attachments))
	return nil
}
