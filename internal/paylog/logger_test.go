package paylog

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(fn func()) (string, error) {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w

	fn()

	if err := w.Close(); err != nil {
		return "", err
	}
	os.Stdout = orig

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, r); err != nil {
		return "", err
	}

	if err := r.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func TestLogCheckoutCompleted(t *testing.T) {
	got, err := captureStdout(func() {
		LogCheckoutCompleted("evt_123", "a@b.com", 4900, "usd", "paid")
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`"provider_event_id":"evt_123","log_context":"payments","version":"\d\.\d\.\d","timestamp":\d+,"disposition":"good","event_type":"checkout_completed","event":{"customer_email":"a@b.com","currency":"usd","payment_status":"paid","amount_total":4900}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogPaymentSucceeded(t *testing.T) {
	got, err := captureStdout(func() {
		LogPaymentSucceeded("evt_456", "pi_789")
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`"disposition":"good","event_type":"payment_succeeded","event":{"payment_intent_id":"pi_789"}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogPaymentFailed(t *testing.T) {
	got, err := captureStdout(func() {
		LogPaymentFailed("evt_456", "pi_789")
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`"disposition":"bad","event_type":"payment_failed","event":{"payment_intent_id":"pi_789"}`,
	)
	assert.Regexp(t, expect, got)
}

func TestLogUnhandledEvent(t *testing.T) {
	got, err := captureStdout(func() {
		LogUnhandledEvent("evt_000", "customer.created")
	})
	require.NoError(t, err)

	expect := regexp.MustCompile(
		`"disposition":"neutral","event_type":"unhandled_event","event":{"provider_type":"customer.created"}`,
	)
	assert.Regexp(t, expect, got)
}

func TestRecordIsValidJSON(t *testing.T) {
	got, err := captureStdout(func() {
		LogUnhandledEvent("evt_000", "charge.refunded")
	})
	require.NoError(t, err)

	var record UnhandledEvent
	require.NoError(t, json.Unmarshal([]byte(got), &record))
	assert.NotEmpty(t, record.RecordID)
	assert.Equal(t, "evt_000", record.ProviderEventID)
	assert.NotZero(t, record.Timestamp)
}
