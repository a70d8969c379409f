package mail

import (
	"context"

	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Ensure ResendSender implements Sender interface.
var _ Sender = (*ResendSender)(nil)

type ResendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	ctx, span := tracer.Start(ctx, "ResendSender.Send", trace.WithAttributes(
		attribute.String("subject", msg.Subject),
		attribute.Int("attachments", len(msg.Attachments)),
	))
	defer span.End()

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return "", err
	}

	span.SetAttributes(attribute.String("message.id", sent.Id))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "sent email")
	return sent.Id, nil
}
