package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidywork/studio-service/internal/payments"
)

const testWebhookSecret = "whsec_test_secret"

type fakeCompleter struct {
	calls []payments.CompletedCheckout
	err   error
}

func (f *fakeCompleter) HandleCheckoutCompleted(_ context.Context, completed payments.CompletedCheckout) error {
	f.calls = append(f.calls, completed)
	return f.err
}

func newWebhookApp(secret string) (*fiber.App, *fakeCompleter) {
	completer := &fakeCompleter{}
	handler := NewWebhookHandler(completer, secret, zap.NewNop())

	app := fiber.New()
	app.Post("/api/stripe/webhook", handler.HandleStripe)
	return app, completer
}

// signPayload produces a Stripe-Signature header the verifier accepts.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func completedEventPayload(orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"client_reference_id": %q,
				"metadata": {"serviceOrderId": %q, "userId": "user-1"},
				"amount_total": 13000,
				"currency": "gbp",
				"payment_intent": "pi_test_1"
			}
		}
	}`, stripe.APIVersion, orderID, orderID))
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/api/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWebhookMissingSecret(t *testing.T) {
	app, completer := newWebhookApp("")

	payload := completedEventPayload("order-1")
	status, body := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Missing STRIPE_WEBHOOK_SECRET", body["error"])
	assert.Empty(t, completer.calls)
}

func TestWebhookMissingSignature(t *testing.T) {
	app, completer := newWebhookApp(testWebhookSecret)

	status, body := postWebhook(t, app, completedEventPayload("order-1"), "")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Missing stripe-signature header", body["error"])
	assert.Empty(t, completer.calls)
}

func TestWebhookInvalidSignature(t *testing.T) {
	app, completer := newWebhookApp(testWebhookSecret)

	payload := completedEventPayload("order-1")
	status, _ := postWebhook(t, app, payload, signPayload(payload, "whsec_wrong_secret"))

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Empty(t, completer.calls)
}

func TestWebhookTamperedPayload(t *testing.T) {
	app, completer := newWebhookApp(testWebhookSecret)

	signature := signPayload(completedEventPayload("order-1"), testWebhookSecret)
	status, _ := postWebhook(t, app, completedEventPayload("order-2"), signature)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Empty(t, completer.calls)
}

func TestWebhookCompletedCheckout(t *testing.T) {
	app, completer := newWebhookApp(testWebhookSecret)

	payload := completedEventPayload("order-1")
	status, body := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["received"])

	require.Len(t, completer.calls, 1)
	completed := completer.calls[0]
	assert.Equal(t, "order-1", completed.OrderID)
	assert.Equal(t, "cs_test_1", completed.SessionID)
	assert.Equal(t, int64(13000), completed.AmountCents)
	assert.Equal(t, "GBP", completed.Currency)
	require.NotNil(t, completed.PaymentIntentID)
	assert.Equal(t, "pi_test_1", *completed.PaymentIntentID)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	app, completer := newWebhookApp(testWebhookSecret)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_2",
		"api_version": %q,
		"type": "invoice.paid",
		"data": {"object": {"id": "in_test_1"}}
	}`, stripe.APIVersion))
	status, body := postWebhook(t, app, payload, signPayload(payload, testWebhookSecret))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["received"])
	assert.Empty(t, completer.calls)
}
