// Package mailjet delivers transactional email through the Mailjet v3.1
// send API: the document stack email after the quiz, the community welcome,
// and the consultation confirmation.
package mailjet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"debteraser/internal/observability"
)

const defaultBaseURL = "https://api.mailjet.com"

// Client talks to the Mailjet send API with Basic auth.
type Client struct {
	baseURL    string
	apiKey     string
	secretKey  string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient returns a client sending as fromEmail.
func NewClient(apiKey, secretKey, fromEmail string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		fromEmail:  fromEmail,
		fromName:   "Debt Eraser Pro",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether both API keys are configured.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.secretKey != ""
}

type sendRequest struct {
	Messages []message `json:"Messages"`
}

type message struct {
	From     party   `json:"From"`
	To       []party `json:"To"`
	Subject  string  `json:"Subject"`
	HTMLPart string  `json:"HTMLPart"`
}

type party struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

// Send delivers a single HTML email.
func (c *Client) Send(ctx context.Context, to, subject, htmlContent string) error {
	body, err := json.Marshal(sendRequest{
		Messages: []message{{
			From:     party{Email: c.fromEmail, Name: c.fromName},
			To:       []party{{Email: to}},
			Subject:  subject,
			HTMLPart: htmlContent,
		}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3.1/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailjet: status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func (c *Client) sendTemplate(ctx context.Context, template, to, subject, htmlContent string) error {
	err := c.Send(ctx, to, subject, htmlContent)
	if err != nil {
		observability.EmailsSent.WithLabelValues(template, "error").Inc()
		return err
	}
	observability.EmailsSent.WithLabelValues(template, "ok").Inc()
	return nil
}

// SendPDFStackEmail delivers the document stack email that follows quiz
// completion.
func (c *Client) SendPDFStackEmail(ctx context.Context, to, name, archetype, pdfStack, battlePlan string) error {
	if name == "" {
		name = "there"
	}
	stackSlug := strings.ToLower(strings.ReplaceAll(pdfStack, " ", "-"))

	htmlContent := fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h1 style="color: #10b981;">Your Custom Debt Eraser Stack Is Ready!</h1>

      <p>Hey %s,</p>

      <p><strong>Your Financial Archetype:</strong> %s</p>

      <p><strong>Your Battle Plan:</strong></p>
      <p>%s</p>

      <p><strong>Your Custom PDF Stack:</strong> %s</p>

      <div style="background: #f3f4f6; padding: 20px; margin: 20px 0; border-radius: 8px;">
        <h3>📥 Download Your Documents</h3>
        <p><a href="https://debteraserpro.com/pdfs/%s.zip"
              style="background: #10b981; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
           Download PDF Stack
        </a></p>
      </div>

      <p><strong>Ready to take it further?</strong></p>
      <p>Join the Debt Eraser Pro community for $97/month and get:</p>
      <ul>
        <li>Access to ALL document templates</li>
        <li>Live Q&A sessions twice a month</li>
        <li>Private community support</li>
        <li>Unlimited access to War Room AI</li>
      </ul>

      <p><a href="https://debteraserpro.com"
            style="background: #3b82f6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
         Join Fusion Community - $97
      </a></p>

      <p>To your financial freedom,<br>
      <strong>The Debt Eraser Team</strong></p>
    </div>`, name, archetype, battlePlan, pdfStack, stackSlug)

	subject := fmt.Sprintf("Your %s is Ready! 📄", pdfStack)
	return c.sendTemplate(ctx, "pdf_stack", to, subject, htmlContent)
}

// SendWelcomeEmail delivers the community welcome email.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	htmlContent := fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h1 style="color: #10b981;">Welcome to Debt Eraser Pro! 🎉</h1>

      <p>Hey %s,</p>

      <p><strong>Your community access is now LIVE!</strong></p>

      <p>Here's what you can do right now:</p>
      <ul>
        <li>📱 Access the community feed and connect with members</li>
        <li>💬 Chat with the War Room AI for instant debt advice</li>
        <li>📅 View upcoming live Q&A sessions</li>
        <li>📥 Download ALL templates from The Vault</li>
      </ul>

      <p><a href="https://debteraserpro.com"
            style="background: #10b981; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
         Access Your Dashboard
      </a></p>

      <p><strong>Next Live Call:</strong> See the calendar in your dashboard</p>

      <p>To your financial freedom,<br>
      <strong>The Debt Eraser Team</strong></p>
    </div>`, name)

	return c.sendTemplate(ctx, "welcome", to, "Welcome to Debt Eraser Pro Community! 🎉", htmlContent)
}

// SendConsultConfirmationEmail delivers the consultation confirmation.
func (c *Client) SendConsultConfirmationEmail(ctx context.Context, to, name string) error {
	htmlContent := fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h1 style="color: #10b981;">Your Consultation is Confirmed! ✅</h1>

      <p>Hey %s,</p>

      <p><strong>Your 1-on-1 strategy session is ready to be scheduled!</strong></p>

      <p>Go to your dashboard and click the Calendar tab to book your session at a time that works for you.</p>

      <p><a href="https://debteraserpro.com"
            style="background: #10b981; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">
         Schedule Your Session
      </a></p>

      <p><strong>What to expect:</strong></p>
      <ul>
        <li>60-minute personalized strategy call</li>
        <li>Custom action plan for your specific situation</li>
        <li>Template customization help</li>
        <li>Q&A with expert guidance</li>
      </ul>

      <p>See you soon!<br>
      <strong>The Debt Eraser Team</strong></p>
    </div>`, name)

	return c.sendTemplate(ctx, "consult_confirmation", to, "Your Consultation is Confirmed! ✅", htmlContent)
}
