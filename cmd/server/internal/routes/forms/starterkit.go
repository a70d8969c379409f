package forms

import (
	"fmt"
	"html"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	"github.com/angel-coaching/site-api/cmd/server/internal/response"
	"github.com/angel-coaching/site-api/internal/logger"
	"github.com/angel-coaching/site-api/internal/mail"
	"github.com/angel-coaching/site-api/internal/types"
	"github.com/angel-coaching/site-api/internal/validator"
)

const (
	kitAttachmentName  = "Fat Loss Starter Kit.pdf"
	kitDefaultSubject  = "New Busy Pro Starter Kit Signup"
	kitWelcomeSubject  = "Your Busy Pro Starter Kit"
	kitPublicAssetPath = "/kit/busy-pro-starter-kit.pdf"
)

var starterKitRules = validator.Rules{
	{Field: "name", Check: validator.Present, Message: "Name is required"},
	{Field: "email", Check: validator.Present, Message: "Email is required"},
	{Field: "phone", Check: validator.Present, Message: "Phone number is required"},
}

// HandleStarterKit delivers the starter kit by email: a welcome email to the
// subscriber with a best-effort PDF attachment, then an internal
// notification. The attachment read failing is non-fatal; the welcome email
// then carries only the download link.
func (h *Handler) HandleStarterKit(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleStarterKit")
	defer span.End()
	span.AddEvent("received starter kit signup")

	sub, err := decode(c, span)
	if err != nil {
		return err
	}

	if err := validate(sub, starterKitRules, span); err != nil {
		return err
	}

	cfg := h.config.Email
	if cfg.APIKey == "" || cfg.NotifyTo == "" {
		span.SetStatus(codes.Error, "email provider is not configured")
		span.RecordError(nil)
		return response.NotConfigured
	}

	name := sub.String("name")
	email := sub.String("email")
	phone := sub.String("phone")
	consent := "No"
	if v, ok := sub["consent"].(bool); ok && v {
		consent = "Yes"
	}

	publicURL := cfg.KitPublicURL
	if publicURL == "" {
		publicURL = kitPublicURL(c.Request())
	}

	welcome := mail.Message{
		From:    cfg.From,
		To:      []string{email},
		Subject: kitWelcomeSubject,
		HTML: fmt.Sprintf(
			`<p>Here is your Busy Pro Starter Kit. The PDF is attached.</p>`+
				`<p>If the attachment is missing, you can also download it here: <a href="%s">%s</a></p>`+
				`<p>- Angel Coaching</p>`,
			publicURL, publicURL,
		),
		Text: fmt.Sprintf("Here is your Busy Pro Starter Kit. Download: %s", publicURL),
	}

	span.AddEvent("loading kit attachment")
	attachment, err := mail.LoadAttachment(cfg.KitPath, kitAttachmentName)
	if err != nil {
		// degraded: subscriber still gets the download link
		logger.Logger.WarnContext(ctx, "could not read kit PDF for attachment", "error", err)
	} else {
		welcome.Attachments = []mail.Attachment{*attachment}
	}

	span.AddEvent("sending welcome email")
	if _, err := h.sender.Send(ctx, welcome); err != nil {
		span.SetStatus(codes.Error, "failed to send welcome email")
		span.RecordError(err)
		logger.Logger.ErrorContext(ctx, "failed to send welcome email", "error", err)
		return response.InternalServerError
	}

	subject := sub.String("subject")
	if subject == "" {
		subject = kitDefaultSubject
	}
	notify := mail.Message{
		From:    cfg.From,
		To:      []string{cfg.NotifyTo},
		Subject: subject,
		HTML: fmt.Sprintf(
			`<h2>New Busy Pro Starter Kit Signup</h2><ul>`+
				`<li><strong>Name:</strong> %s</li>`+
				`<li><strong>Email:</strong> %s</li>`+
				`<li><strong>Phone:</strong> %s</li>`+
				`<li><strong>Consent:</strong> %s</li></ul>`,
			html.EscapeString(name),
			html.EscapeString(email),
			html.EscapeString(phone),
			consent,
		),
		Text: fmt.Sprintf(
			"New Busy Pro Starter Kit Signup\nName: %s\nEmail: %s\nPhone: %s\nConsent: %s",
			name, email, phone, consent,
		),
	}

	span.AddEvent("sending notification email")
	if _, err := h.sender.Send(ctx, notify); err != nil {
		// the subscriber already has their kit; the internal copy failing
		// is logged but does not fail the request
		span.RecordError(err)
		logger.Logger.ErrorContext(ctx, "failed to send signup notification", "error", err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "delivered starter kit")
	return c.JSON(http.StatusOK, types.SubmitResponse{Success: true})
}

// kitPublicURL rebuilds the externally reachable download link from the
// request, honoring the platform's forwarded-proto header.
func kitPublicURL(r *http.Request) string {
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "https"
	}
	return fmt.Sprintf("%s://%s%s", proto, r.Host, kitPublicAssetPath)
}
