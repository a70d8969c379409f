package forms

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/angel-coaching/site-api/cmd/server/internal/response"
	"github.com/angel-coaching/site-api/internal/config"
	"github.com/angel-coaching/site-api/internal/form"
	"github.com/angel-coaching/site-api/internal/forward"
	"github.com/angel-coaching/site-api/internal/logger"
	"github.com/angel-coaching/site-api/internal/mail"
	"github.com/angel-coaching/site-api/internal/types"
	"github.com/angel-coaching/site-api/internal/validator"
)

const name = "github.com/angel-coaching/site-api/server/routes/forms"

var tracer = otel.Tracer(name)

type Handler struct {
	config    *config.Config
	forwarder forward.Forwarder
	sender    mail.Sender
}

func NewHandler(
	cfg *config.Config,
	forwarder forward.Forwarder,
	sender mail.Sender,
) *Handler {
	return &Handler{
		config:    cfg,
		forwarder: forwarder,
		sender:    sender,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo) {
	e.POST("/api/coaching-application/", h.HandleCoachingApplication)
	e.POST("/api/coaching-interest/", h.HandleCoachingInterest)
	e.POST("/api/in-depth-questionnaire/", h.HandleQuestionnaire)
	e.POST("/api/starter-kit/", h.HandleStarterKit)
	e.POST("/api/leads/", h.HandleLead)
}

// decode reads the request body as a submission record. A malformed body is
// reported as a 400; an empty body decodes to an empty record.
func decode(c echo.Context, span trace.Span) (form.Submission, error) {
	span.AddEvent("parsing request body")
	sub, err := form.Decode(c.Request().Body)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse request body")
		span.RecordError(err)
		return nil, response.InvalidBody
	}
	return sub, nil
}

// validate runs an endpoint's ordered rule list, mapping the first failure to
// a 400 with that rule's message.
func validate(sub form.Submission, rules validator.Rules, span trace.Span) error {
	span.AddEvent("validating submission")
	if err := rules.Validate(sub); err != nil {
		var fieldErr *validator.FieldError
		if errors.As(err, &fieldErr) {
			span.SetAttributes(attribute.String("validation.field", fieldErr.Field))
		}
		span.SetStatus(codes.Error, "submission failed validation")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.StringError(err.Error()))
	}
	return nil
}

// dispatch forwards the shaped payload and classifies failures: an upstream
// rejection becomes a 502 with the raw body logged server-side only, anything
// else becomes a 500.
func (h *Handler) dispatch(
	ctx context.Context,
	span trace.Span,
	url string,
	payload any,
) error {
	span.AddEvent("forwarding submission")
	err := h.forwarder.Forward(ctx, url, payload)
	if err == nil {
		return nil
	}

	span.RecordError(err)

	var upstream *forward.UpstreamError
	if errors.As(err, &upstream) {
		span.SetStatus(codes.Error, "upstream rejected submission")
		logger.Logger.ErrorContext(ctx, "webhook rejected submission",
			"status", upstream.Status,
			"body", upstream.Body,
		)
		return response.UpstreamRejected
	}

	span.SetStatus(codes.Error, "failed to forward submission")
	logger.Logger.ErrorContext(ctx, "failed to forward submission", "error", err)
	return response.InternalServerError
}
