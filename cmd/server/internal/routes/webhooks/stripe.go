package webhooks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/angel-coaching/site-api/internal/logger"
	"github.com/angel-coaching/site-api/internal/paylog"
	"github.com/angel-coaching/site-api/internal/types"
)

const name = "github.com/angel-coaching/site-api/server/routes/webhooks"

var tracer = otel.Tracer(name)

// maxStripeBodyBytes bounds the raw payload read before signature
// verification. Stripe events are small; anything larger is not ours.
const maxStripeBodyBytes = 1 << 20

// HandleStripeWebhook verifies the Stripe signature on the raw request body
// and records payment lifecycle events. No fulfillment happens here: every
// branch after verification is log-only and acknowledges with 200 so Stripe
// does not redeliver.
func (h *Handler) HandleStripeWebhook(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleStripeWebhook")
	defer span.End()

	span.AddEvent("received Stripe webhook")

	secret := h.config.Stripe.WebhookSecret
	if secret == "" {
		span.SetStatus(codes.Error, "Stripe webhook secret is not configured")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusInternalServerError,
			types.StringError("Webhook secret not configured"),
		)
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxStripeBodyBytes))
	if err != nil {
		span.SetStatus(codes.Error, "failed to read webhook payload")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError(fmt.Sprintf("Webhook Error: %s", err)),
		)
	}

	// Verification must happen against the exact bytes Stripe signed, which
	// is why the body is read raw instead of bound through the echo binder.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.Request().Header.Get("Stripe-Signature"),
		secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		span.SetStatus(codes.Error, "failed to verify webhook signature")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError(fmt.Sprintf("Webhook Error: %s", err)),
		)
	}

	span.SetAttributes(
		attribute.String("stripe.event.id", event.ID),
		attribute.String("stripe.event.type", string(event.Type)),
	)

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			span.SetStatus(codes.Error, "failed to unmarshal checkout session")
			span.RecordError(err)
			logger.Logger.ErrorContext(ctx, "failed to unmarshal checkout session",
				"eventID", event.ID,
				"error", err,
			)
			break
		}

		customerEmail := ""
		if session.CustomerDetails != nil {
			customerEmail = session.CustomerDetails.Email
		}

		paylog.LogCheckoutCompleted(
			event.ID,
			customerEmail,
			session.AmountTotal,
			string(session.Currency),
			string(session.PaymentStatus),
		)
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			span.SetStatus(codes.Error, "failed to unmarshal payment intent")
			span.RecordError(err)
			logger.Logger.ErrorContext(ctx, "failed to unmarshal payment intent",
				"eventID", event.ID,
				"error", err,
			)
			break
		}

		paylog.LogPaymentSucceeded(event.ID, intent.ID)
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			span.SetStatus(codes.Error, "failed to unmarshal payment intent")
			span.RecordError(err)
			logger.Logger.ErrorContext(ctx, "failed to unmarshal payment intent",
				"eventID", event.ID,
				"error", err,
			)
			break
		}

		paylog.LogPaymentFailed(event.ID, intent.ID)
	default:
		paylog.LogUnhandledEvent(event.ID, string(event.Type))
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "acknowledged Stripe event")
	return c.JSON(http.StatusOK, types.ReceivedResponse{Received: true})
}
