package mailjet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSend(t *testing.T) (*httptest.Server, *sendRequest) {
	t.Helper()
	var captured sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v3.1/send", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "mj-key", user)
		require.Equal(t, "mj-secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"Messages": []map[string]string{{"Status": "success"}}})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestSendPDFStackEmail(t *testing.T) {
	srv, captured := captureSend(t)
	client := NewClient("mj-key", "mj-secret", "noreply@debteraserpro.com", WithBaseURL(srv.URL))

	err := client.SendPDFStackEmail(context.Background(),
		"lead@example.com", "Dana", "The Strategist", "Revolving Credit Stax", "Dispute everything.")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	msg := captured.Messages[0]
	assert.Equal(t, "noreply@debteraserpro.com", msg.From.Email)
	assert.Equal(t, "lead@example.com", msg.To[0].Email)
	assert.Equal(t, "Your Revolving Credit Stax is Ready! 📄", msg.Subject)
	assert.Contains(t, msg.HTMLPart, "The Strategist")
	assert.Contains(t, msg.HTMLPart, "revolving-credit-stax.zip")
}

func TestSendPDFStackEmail_EmptyNameDefaults(t *testing.T) {
	srv, captured := captureSend(t)
	client := NewClient("mj-key", "mj-secret", "noreply@debteraserpro.com", WithBaseURL(srv.URL))

	require.NoError(t, client.SendPDFStackEmail(context.Background(),
		"lead@example.com", "", "The Survivor", "Credit Profile Sweep Stax", "Go manual."))
	assert.Contains(t, captured.Messages[0].HTMLPart, "Hey there,")
}

func TestSendWelcomeEmail(t *testing.T) {
	srv, captured := captureSend(t)
	client := NewClient("mj-key", "mj-secret", "noreply@debteraserpro.com", WithBaseURL(srv.URL))

	require.NoError(t, client.SendWelcomeEmail(context.Background(), "member@example.com", "Sam"))
	msg := captured.Messages[0]
	assert.Equal(t, "Welcome to Debt Eraser Pro Community! 🎉", msg.Subject)
	assert.Contains(t, msg.HTMLPart, "community access is now LIVE")
}

func TestSendConsultConfirmationEmail(t *testing.T) {
	srv, captured := captureSend(t)
	client := NewClient("mj-key", "mj-secret", "noreply@debteraserpro.com", WithBaseURL(srv.URL))

	require.NoError(t, client.SendConsultConfirmationEmail(context.Background(), "vip@example.com", "Alex"))
	msg := captured.Messages[0]
	assert.Equal(t, "Your Consultation is Confirmed! ✅", msg.Subject)
	assert.Contains(t, msg.HTMLPart, "strategy session")
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ErrorMessage":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", "worse", "noreply@debteraserpro.com", WithBaseURL(srv.URL))
	err := client.Send(context.Background(), "x@example.com", "subj", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestEnabled(t *testing.T) {
	assert.True(t, NewClient("k", "s", "f@x.com").Enabled())
	assert.False(t, NewClient("", "s", "f@x.com").Enabled())
	assert.False(t, NewClient("k", "", "f@x.com").Enabled())
}
