package webhooks_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angel-coaching/site-api/cmd/server/internal/routes"
	"github.com/angel-coaching/site-api/cmd/server/internal/routes/webhooks"
	"github.com/angel-coaching/site-api/internal/config"
	"github.com/angel-coaching/site-api/internal/logger"
)

const testSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way the Stripe CLI does:
// v1 is an HMAC-SHA256 of "<timestamp>.<payload>" keyed with the endpoint
// secret.
func signPayload(secret, payload string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestEcho(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()

	e, err := routes.BuildEcho(logger.Logger, "")
	require.NoError(t, err)

	webhooks.CreateHandler(cfg).AddRoutes(e)
	return e
}

func testConfig() *config.Config {
	return &config.Config{
		Logging:       &config.LoggingConfig{},
		Webhooks:      &config.WebhookConfig{},
		Email:         &config.EmailConfig{},
		Stripe:        &config.StripeConfig{WebhookSecret: testSecret},
		ListenAddress: "[::]:0",
	}
}

func postEvent(e *echo.Echo, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func eventPayload(eventType, dataObject string) string {
	return fmt.Sprintf(
		`{"id":"evt_test_1","object":"event","api_version":"2025-03-31.basil","type":%q,"data":{"object":%s}}`,
		eventType,
		dataObject,
	)
}

func TestStripeWebhook(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Stripe.WebhookSecret = ""
		e := newTestEcho(t, cfg)

		rec := postEvent(e, "{}", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(
			t,
			`{"success":false,"message":"Webhook secret not configured"}`,
			rec.Body.String(),
		)
	})

	t.Run("MissingSignature", func(t *testing.T) {
		e := newTestEcho(t, testConfig())

		rec := postEvent(e, eventPayload("payment_intent.succeeded", `{"id":"pi_1"}`), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Webhook Error:")
	})

	t.Run("BadSignature", func(t *testing.T) {
		e := newTestEcho(t, testConfig())
		payload := eventPayload("payment_intent.succeeded", `{"id":"pi_1"}`)

		rec := postEvent(e, payload, signPayload("whsec_wrong", payload, time.Now()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Webhook Error:")
	})

	t.Run("StaleTimestamp", func(t *testing.T) {
		e := newTestEcho(t, testConfig())
		payload := eventPayload("payment_intent.succeeded", `{"id":"pi_1"}`)

		rec := postEvent(e, payload, signPayload(testSecret, payload, time.Now().Add(-time.Hour)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Webhook Error:")
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		e := newTestEcho(t, testConfig())
		payload := eventPayload("payment_intent.succeeded", `{"id":"pi_1"}`)
		signature := signPayload(testSecret, payload, time.Now())

		rec := postEvent(e, strings.Replace(payload, "pi_1", "pi_2", 1), signature)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Webhook Error:")
	})

	t.Run("CheckoutCompleted", func(t *testing.T) {
		e := newTestEcho(t, testConfig())
		payload := eventPayload(
			"checkout.session.completed",
			`{"id":"cs_1","customer_details":{"email":"a@b.com"},"amount_total":4900,"currency":"usd","payment_status":"paid"}`,
		)

		rec := postEvent(e, payload, signPayload(testSecret, payload, time.Now()))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	})

	t.Run("PaymentSucceeded", func(t *testing.T) {
		e := newTestEcho(t, testConfig())
		payload := eventPayload("payment_intent.succeeded", `{"id":"pi_1","amount":4900}`)

		rec := postEvent(e, payload, signPayload(testSecret, payload, time.Now()))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	})

	t.Run("UnhandledEventTypeStillAcknowledged", func(t *testing.T) {
		e := newTestEcho(t, testConfig())
		payload := eventPayload("customer.created", `{"id":"cus_1"}`)

		rec := postEvent(e, payload, signPayload(testSecret, payload, time.Now()))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		e := newTestEcho(t, testConfig())

		req := httptest.NewRequest(http.MethodGet, "/webhook/stripe/", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodPost, rec.Header().Get(echo.HeaderAllow))
	})
}
