package forms

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	"github.com/angel-coaching/site-api/cmd/server/internal/response"
	"github.com/angel-coaching/site-api/internal/form"
	"github.com/angel-coaching/site-api/internal/types"
	"github.com/angel-coaching/site-api/internal/validator"
)

const coachingRedirect = "/thank-you.html?product=coaching"

// Rule order is load-bearing: the first failing rule decides the message the
// client sees.
var coachingApplicationRules = validator.Rules{
	{Field: "name", Check: validator.Present, Message: "Name is required"},
	{Field: "gender", Check: validator.Present, Message: "Gender is required"},
	{Field: "situation", Check: validator.Present, Message: "Situation description is required"},
	{Field: "primary_goal", Check: validator.Present, Message: "Primary goal is required"},
	{Field: "exercise_types", Check: validator.Present, Message: "At least one exercise type is required"},
	{Field: "experience_level", Check: validator.Present, Message: "Experience level is required"},
	{Field: "specific_goal", Check: validator.Present, Message: "Specific goal is required"},
	{Field: "hardest_challenge", Check: validator.Present, Message: "Hardest challenge is required"},
	{Field: "muscle_groups", Check: validator.Present, Message: "Muscle groups to prioritize is required"},
	{Field: "phone", Check: validator.Present, Message: "Phone number is required"},
	{Field: "phone", Check: validator.Phone, Message: "Please enter a valid phone number"},
}

var coachingInterestRules = validator.Rules{
	{Field: "name", Check: validator.Present, Message: "Name is required"},
	{Field: "gender", Check: validator.Present, Message: "Gender is required"},
	{Field: "situation", Check: validator.Present, Message: "Situation description is required"},
	{Field: "primary_goal", Check: validator.Present, Message: "Primary goal is required"},
	{Field: "experience_level", Check: validator.Present, Message: "Experience level is required"},
	{Field: "contact", Check: validator.Present, Message: "Contact info is required"},
	{Field: "contact", Check: validator.Contact, Message: "Please enter a valid email, Instagram handle, or phone number"},
}

// HandleCoachingApplication is the full coaching intake form.
func (h *Handler) HandleCoachingApplication(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleCoachingApplication")
	defer span.End()
	span.AddEvent("received coaching application")

	sub, err := decode(c, span)
	if err != nil {
		return err
	}

	if err := validate(sub, coachingApplicationRules, span); err != nil {
		return err
	}

	webhookURL := h.config.Webhooks.CoachingURL
	if webhookURL == "" {
		span.SetStatus(codes.Error, "coaching webhook URL is not configured")
		span.RecordError(nil)
		return response.NotConfigured
	}

	meta := form.MetaFromHeader(c.Request().Header)
	payload := map[string]string{
		"source":            "coaching",
		"name":              sub.String("name"),
		"age":               sub.String("age"),
		"height":            sub.String("height"),
		"weight":            sub.String("weight"),
		"gender":            sub.String("gender"),
		"situation":         sub.String("situation"),
		"primary_goal":      sub.String("primary_goal"),
		"exercise_types":    sub.Join("exercise_types"),
		"exercise_other":    sub.String("exercise_other"),
		"experience_level":  sub.String("experience_level"),
		"specific_goal":     sub.String("specific_goal"),
		"hardest_challenge": sub.String("hardest_challenge"),
		"muscle_groups":     sub.String("muscle_groups"),
		"employed":          sub.String("employed"),
		"phone":             sub.String("phone"),
	}
	meta.Apply(payload, sub)

	if err := h.dispatch(ctx, span, webhookURL, payload); err != nil {
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "forwarded coaching application")
	return c.JSON(http.StatusOK, types.SubmitResponse{Success: true, Redirect: coachingRedirect})
}

// HandleCoachingInterest is the short-form variant: fewer required fields and
// a contact field that accepts an email, handle, or phone number.
func (h *Handler) HandleCoachingInterest(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleCoachingInterest")
	defer span.End()
	span.AddEvent("received coaching interest submission")

	sub, err := decode(c, span)
	if err != nil {
		return err
	}

	if err := validate(sub, coachingInterestRules, span); err != nil {
		return err
	}

	webhookURL := h.config.Webhooks.CoachingURL
	if webhookURL == "" {
		span.SetStatus(codes.Error, "coaching webhook URL is not configured")
		span.RecordError(nil)
		return response.NotConfigured
	}

	meta := form.MetaFromHeader(c.Request().Header)
	payload := map[string]string{
		"source":           "coaching-interest",
		"name":             sub.String("name"),
		"gender":           sub.String("gender"),
		"situation":        sub.String("situation"),
		"primary_goal":     sub.String("primary_goal"),
		"experience_level": sub.String("experience_level"),
		"contact":          sub.String("contact"),
	}
	meta.Apply(payload, sub)

	if err := h.dispatch(ctx, span, webhookURL, payload); err != nil {
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "forwarded coaching interest submission")
	return c.JSON(http.StatusOK, types.SubmitResponse{Success: true, Redirect: coachingRedirect})
}
