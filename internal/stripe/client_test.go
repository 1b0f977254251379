package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		json.NewEncoder(w).Encode(PaymentIntent{
			ID:           "pi_123",
			Amount:       9700,
			Currency:     "usd",
			Status:       "requires_payment_method",
			ClientSecret: "pi_123_secret_abc",
			Metadata:     map[string]string{"plan": "community", "email": "buyer@example.com"},
		})
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", WithBaseURL(srv.URL))
	intent, err := client.CreatePaymentIntent(context.Background(), "community", "buyer@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, []string{"9700"}, gotForm["amount"])
	assert.Equal(t, []string{"usd"}, gotForm["currency"])
	assert.Equal(t, []string{"community"}, gotForm["metadata[plan]"])
	assert.Equal(t, []string{"buyer@example.com"}, gotForm["receipt_email"])
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
}

func TestCreatePaymentIntent_UnknownPlan(t *testing.T) {
	client := NewClient("sk_test_123")
	_, err := client.CreatePaymentIntent(context.Background(), "platinum", "x@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown plan")
}

func TestGetPaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payment_intents/pi_456", r.URL.Path)
		json.NewEncoder(w).Encode(PaymentIntent{
			ID:     "pi_456",
			Amount: 29700,
			Status: "succeeded",
			Metadata: map[string]string{
				"plan":  "consult",
				"email": "vip@example.com",
			},
		})
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", WithBaseURL(srv.URL))
	intent, err := client.GetPaymentIntent(context.Background(), "pi_456")
	require.NoError(t, err)
	assert.True(t, intent.Succeeded())
	assert.EqualValues(t, 29700, intent.Amount)
	assert.Equal(t, "consult", intent.Metadata["plan"])
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"type":    "card_error",
				"code":    "card_declined",
				"message": "Your card was declined.",
			},
		})
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", WithBaseURL(srv.URL))
	_, err := client.GetPaymentIntent(context.Background(), "pi_declined")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestPlanAmounts(t *testing.T) {
	assert.EqualValues(t, 9700, PlanAmounts["community"])
	assert.EqualValues(t, 29700, PlanAmounts["consult"])
}
