package forms

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/angel-coaching/site-api/cmd/server/internal/response"
	"github.com/angel-coaching/site-api/internal/form"
	"github.com/angel-coaching/site-api/internal/types"
	"github.com/angel-coaching/site-api/internal/validator"
)

var leadRules = validator.Rules{
	{Field: "email", Check: validator.Present, Message: "Email is required"},
	{Field: "email", Check: validator.Email, Message: "Please enter a valid email address"},
	{Field: "phone", Check: validator.Present, Message: "Phone number is required"},
	{Field: "phone", Check: validator.Phone, Message: "Please enter a valid phone number"},
}

// leadSource maps the submitted product onto the closed set of lead sources.
// Anything outside the recognized set falls back to "workout".
func leadSource(product string) string {
	if product == "bundle" {
		return "bundle"
	}
	return "workout"
}

// HandleLead captures a free-download lead and forwards it to the leads
// automation webhook.
func (h *Handler) HandleLead(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleLead")
	defer span.End()
	span.AddEvent("received lead submission")

	sub, err := decode(c, span)
	if err != nil {
		return err
	}

	if err := validate(sub, leadRules, span); err != nil {
		return err
	}

	webhookURL := h.config.Webhooks.LeadsURL
	if webhookURL == "" {
		span.SetStatus(codes.Error, "leads webhook URL is not configured")
		span.RecordError(nil)
		return response.NotConfigured
	}

	source := leadSource(sub.String("product"))
	span.SetAttributes(attribute.String("lead.source", source))

	meta := form.MetaFromHeader(c.Request().Header)
	payload := map[string]string{
		"source":  source,
		"name":    sub.String("name"),
		"email":   sub.String("email"),
		"phone":   sub.String("phone"),
		"product": sub.String("product"),
	}
	meta.Apply(payload, sub)

	if err := h.dispatch(ctx, span, webhookURL, payload); err != nil {
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "forwarded lead")
	return c.JSON(http.StatusOK, types.SubmitResponse{
		Success:  true,
		Redirect: "/thank-you.html?product=" + source,
	})
}
