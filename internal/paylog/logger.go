package paylog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angel-coaching/site-api/internal/logger"
	"github.com/angel-coaching/site-api/internal/types"
)

func newMessage(providerEventID string, evt EventType, disp Disposition) Message {
	return Message{
		RecordID:        uuid.New().String(),
		ProviderEventID: providerEventID,
		LogContext:      logContext,
		SchemaVersion:   schemaVersion,
		Timestamp:       types.UnixMilli(time.Now().UTC().UnixMilli()),
		Disposition:     disp,
		Type:            evt,
	}
}

func emit(event any, evtType EventType) {
	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize payment event",
			"eventType",
			evtType,
		)
		return
	}

	fmt.Println(string(evtStr))
}

func LogCheckoutCompleted(
	providerEventID string,
	customerEmail string,
	amountTotal int64,
	currency string,
	paymentStatus string,
) {
	event := CheckoutCompleted{}
	event.Message = newMessage(providerEventID, EvtCheckoutCompleted, DispositionGood)

	event.Event.CustomerEmail = customerEmail
	event.Event.AmountTotal = amountTotal
	event.Event.Currency = currency
	event.Event.PaymentStatus = paymentStatus

	emit(event, EvtCheckoutCompleted)
}

func LogPaymentSucceeded(providerEventID string, paymentIntentID string) {
	event := PaymentResult{}
	event.Message = newMessage(providerEventID, EvtPaymentSucceeded, DispositionGood)
	event.Event.PaymentIntentID = paymentIntentID

	emit(event, EvtPaymentSucceeded)
}

func LogPaymentFailed(providerEventID string, paymentIntentID string) {
	event := PaymentResult{}
	event.Message = newMessage(providerEventID, EvtPaymentFailed, DispositionBad)
	event.Event.PaymentIntentID = paymentIntentID

	emit(event, EvtPaymentFailed)
}

func LogUnhandledEvent(providerEventID string, providerType string) {
	event := UnhandledEvent{}
	event.Message = newMessage(providerEventID, EvtUnhandledEvent, DispositionNeutral)
	event.Event.ProviderType = providerType

	emit(event, EvtUnhandledEvent)
}
