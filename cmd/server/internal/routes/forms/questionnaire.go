package forms

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"

	"github.com/angel-coaching/site-api/cmd/server/internal/response"
	"github.com/angel-coaching/site-api/internal/form"
	"github.com/angel-coaching/site-api/internal/types"
)

// Every questionnaire field is optional and passed through as submitted.
// Grouped by questionnaire section; the downstream automation expects every
// key present, with "" for anything left blank.
var questionnaireFields = []string{
	// Basics & logistics
	"full_name", "email", "phone", "timezone", "age", "sex", "height",
	"current_weight", "body_fat", "daily_steps", "upcoming_events",
	"communication_method",
	// Main goal & outcome
	"primary_goal", "top_outcomes", "timeline", "measure_success",
	"goal_importance", "confidence_level", "decide_phase", "progress_photos",
	// Training experience & current routine
	"lifting_experience", "current_training", "what_worked", "what_not_worked",
	"experience_level", "bench", "squat", "deadlift", "pullups", "other_lifts",
	// Schedule, availability, preferences
	"training_days", "session_length", "preferred_days", "training_time",
	"schedule_preference", "gym_type", "schedule_constraints",
	// Equipment & gym access
	"equipment", "dumbbell_weight", "equipment_missing",
	// Injuries, pain, limitations
	"current_injuries", "injury_details", "past_injuries", "exercises_avoid",
	"exercises_dislike", "exercises_love", "medical_conditions",
	"medical_clearance",
	// Muscle priorities & physique focus
	"muscle_priorities", "overdeveloped_areas", "posture_goals",
	// Split preference & training style
	"preferred_split", "weight_preference", "training_priority",
	"training_intensity",
	// Cardio, steps, activity
	"doing_cardio", "cardio_details", "cardio_enjoyment", "cardio_options",
	"daily_activity", "step_target",
	// Recovery, stress, lifestyle
	"avg_sleep", "sleep_quality", "stress_level", "stress_causes",
	"run_down_days", "recovery_tools", "recovery_limitations",
	// Nutrition goal & strategy
	"nutrition_goal", "nutrition_support", "willing_to_track",
	"current_tracking", "nutrition_challenges",
	// Eating pattern & schedule constraints
	"meals_per_day", "meal1_time", "meal2_time", "meal3_time", "snacks_time",
	"intermittent_fasting", "eating_window", "training_time_meal",
	"preworkout_preference", "typical_weekday", "typical_weekend",
	// Food preferences, restrictions, non-negotiables
	"allergies", "foods_refuse", "foods_prefer", "dietary_style",
	"religious_restrictions", "digestive_issues",
	// Cooking, meal prep, budget, eating out
	"meal_prep_days", "cooking_setup", "cooking_confidence", "bring_meals",
	"eat_out_frequency", "eat_out_places", "grocery_budget",
	"convenience_foods",
	// Protein, hunger, cravings, trigger foods
	"current_protein", "protein_sources", "hunger_level", "cravings_worst",
	"trigger_foods", "struggle_situations",
	// Hydration, alcohol, supplements
	"water_intake", "caffeine_intake", "alcohol_frequency",
	"current_supplements", "supplements_refuse",
}

// HandleQuestionnaire forwards the in-depth questionnaire. Nothing is
// strictly required; the whole record is reshaped and passed through.
func (h *Handler) HandleQuestionnaire(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleQuestionnaire")
	defer span.End()
	span.AddEvent("received questionnaire submission")

	sub, err := decode(c, span)
	if err != nil {
		return err
	}

	webhookURL := h.config.Webhooks.QuestionnaireURL
	if webhookURL == "" {
		span.SetStatus(codes.Error, "questionnaire webhook URL is not configured")
		span.RecordError(nil)
		return response.NotConfigured
	}

	meta := form.MetaFromHeader(c.Request().Header)
	payload := make(map[string]string, len(questionnaireFields)+4)
	payload["source"] = "in-depth-questionnaire"
	for _, field := range questionnaireFields {
		payload[field] = sub.Join(field)
	}
	meta.Apply(payload, sub)

	if err := h.dispatch(ctx, span, webhookURL, payload); err != nil {
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "forwarded questionnaire submission")
	return c.JSON(http.StatusOK, types.SubmitResponse{Success: true})
}
