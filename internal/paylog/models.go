package paylog

import "github.com/angel-coaching/site-api/internal/types"

var schemaVersion = "0.1.0"
var logContext = "payments"

type Disposition string

const (
	DispositionNeutral Disposition = "neutral"
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
)

type EventType string

const (
	EvtCheckoutCompleted EventType = "checkout_completed"
	EvtPaymentSucceeded  EventType = "payment_succeeded"
	EvtPaymentFailed     EventType = "payment_failed"
	EvtUnhandledEvent    EventType = "unhandled_event"
)

// Message is the envelope shared by every payment log record. RecordID is
// generated per record; ProviderEventID is Stripe's event id, kept so records
// can be matched against the provider dashboard.
type Message struct {
	RecordID        string          `json:"record_id"         validate:"required"`
	ProviderEventID string          `json:"provider_event_id"`
	LogContext      string          `json:"log_context"       validate:"required"`
	SchemaVersion   string          `json:"version"           validate:"required"`
	Timestamp       types.UnixMilli `json:"timestamp"         validate:"required"`
	Disposition     Disposition     `json:"disposition"       validate:"required"`
	Type            EventType       `json:"event_type"        validate:"required"`
}

type CheckoutCompleted struct {
	Message
	Event struct {
		CustomerEmail string `json:"customer_email"`
		Currency      string `json:"currency"`
		PaymentStatus string `json:"payment_status"`
		AmountTotal   int64  `json:"amount_total"`
	} `json:"event"`
}

type PaymentResult struct {
	Message
	Event struct {
		PaymentIntentID string `json:"payment_intent_id"`
	} `json:"event"`
}

type UnhandledEvent struct {
	Message
	Event struct {
		ProviderType string `json:"provider_type"`
	} `json:"event"`
}
