package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"debteraser/internal/models"
	"debteraser/internal/stripe"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent_InvalidPlan_NoDownstreamCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	app := fiber.New()
	s := &Server{payments: stripe.NewClient("sk_test", stripe.WithBaseURL(srv.URL))}
	app.Post("/create-payment-intent", s.CreatePaymentIntent)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/create-payment-intent", map[string]string{
		"plan":  "platinum",
		"email": "x@example.com",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, calls.Load(), "invalid plan must be rejected before any gateway call")
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "29700", r.PostForm.Get("amount"))
		json.NewEncoder(w).Encode(stripe.PaymentIntent{
			ID:           "pi_1",
			ClientSecret: "pi_1_secret",
		})
	}))
	defer srv.Close()

	app := fiber.New()
	s := &Server{payments: stripe.NewClient("sk_test", stripe.WithBaseURL(srv.URL))}
	app.Post("/create-payment-intent", s.CreatePaymentIntent)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/create-payment-intent", map[string]string{
		"plan":  "consult",
		"email": "vip@example.com",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pi_1_secret", body["clientSecret"])
}

func TestVerifyPayment_SucceededIntentGrantsAccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stripe.PaymentIntent{
			ID:     "pi_ok",
			Amount: 9700,
			Status: "succeeded",
			Metadata: map[string]string{
				"plan":  "community",
				"email": "buyer@example.com",
			},
		})
	}))
	defer srv.Close()

	app := fiber.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("GrantAccess", mock.Anything, "buyer@example.com", models.MembershipCommunity).
		Return(&models.User{ID: 3, Email: "buyer@example.com", HasCommunityAccess: true}, nil)
	s := &Server{
		userRepo: mockRepo,
		payments: stripe.NewClient("sk_test", stripe.WithBaseURL(srv.URL)),
	}
	app.Post("/verify-payment", s.VerifyPayment)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/verify-payment", map[string]string{
		"paymentIntentId": "pi_ok",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status   string            `json:"status"`
		Amount   int64             `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "succeeded", body.Status)
	assert.EqualValues(t, 9700, body.Amount)
	mockRepo.AssertExpectations(t)
}

func TestVerifyPayment_PendingIntentDoesNotGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stripe.PaymentIntent{
			ID:     "pi_pending",
			Status: "requires_payment_method",
			Metadata: map[string]string{
				"plan":  "community",
				"email": "slow@example.com",
			},
		})
	}))
	defer srv.Close()

	app := fiber.New()
	mockRepo := new(MockUserRepository)
	s := &Server{
		userRepo: mockRepo,
		payments: stripe.NewClient("sk_test", stripe.WithBaseURL(srv.URL)),
	}
	app.Post("/verify-payment", s.VerifyPayment)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/verify-payment", map[string]string{
		"paymentIntentId": "pi_pending",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mockRepo.AssertNotCalled(t, "GrantAccess", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_MissingID(t *testing.T) {
	app := fiber.New()
	s := &Server{payments: stripe.NewClient("sk_test")}
	app.Post("/verify-payment", s.VerifyPayment)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/verify-payment", map[string]string{}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
