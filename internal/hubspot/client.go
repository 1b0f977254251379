// Package hubspot pushes funnel activity into the CRM: contacts for leads
// and buyers, deals for completed purchases.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.hubapi.com"

// ErrContactNotFound is returned when a search by email matches nothing.
var ErrContactNotFound = fmt.Errorf("hubspot: contact not found")

// Contact carries the funnel attributes synced onto a CRM contact.
type Contact struct {
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	LeadSource     string
	QuizResults    any
	PurchaseAmount float64
	PurchaseType   string
}

// Deal describes a purchase to record against an existing contact.
type Deal struct {
	Email     string
	DealName  string
	Amount    float64
	DealStage string
	DealType  string
}

// Client talks to the HubSpot CRM v3 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient returns a client for the given private app token.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type objectResponse struct {
	ID string `json:"id"`
}

type searchResponse struct {
	Results []objectResponse `json:"results"`
}

// CreateContact creates a contact with the funnel properties that are set.
func (c *Client) CreateContact(ctx context.Context, contact Contact) (string, error) {
	properties := map[string]string{
		"email":       contact.Email,
		"lead_source": contact.LeadSource,
	}
	if contact.FirstName != "" {
		properties["firstname"] = contact.FirstName
	}
	if contact.LastName != "" {
		properties["lastname"] = contact.LastName
	}
	if contact.Phone != "" {
		properties["phone"] = contact.Phone
	}
	if contact.QuizResults != nil {
		encoded, err := json.Marshal(contact.QuizResults)
		if err != nil {
			return "", err
		}
		properties["quiz_results"] = string(encoded)
	}
	if contact.PurchaseAmount > 0 {
		properties["purchase_amount"] = fmt.Sprintf("%g", contact.PurchaseAmount)
	}
	if contact.PurchaseType != "" {
		properties["purchase_type"] = contact.PurchaseType
	}

	var created objectResponse
	err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", map[string]any{
		"properties": properties,
	}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// FindContactByEmail returns the CRM ID of the contact with the given email,
// or ErrContactNotFound.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (string, error) {
	body := map[string]any{
		"filterGroups": []map[string]any{{
			"filters": []map[string]string{{
				"propertyName": "email",
				"operator":     "EQ",
				"value":        email,
			}},
		}},
	}

	var found searchResponse
	if err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", body, &found); err != nil {
		return "", err
	}
	if len(found.Results) == 0 {
		return "", ErrContactNotFound
	}
	return found.Results[0].ID, nil
}

// UpdateContact patches arbitrary properties on the contact with the given
// email.
func (c *Client) UpdateContact(ctx context.Context, email string, properties map[string]string) (string, error) {
	contactID, err := c.FindContactByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	var updated objectResponse
	err = c.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+contactID, map[string]any{
		"properties": properties,
	}, &updated)
	if err != nil {
		return "", err
	}
	return updated.ID, nil
}

// CreateDeal records a purchase as a deal associated with the contact
// matching deal.Email.
func (c *Client) CreateDeal(ctx context.Context, deal Deal) (string, error) {
	contactID, err := c.FindContactByEmail(ctx, deal.Email)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"properties": map[string]string{
			"dealname":  deal.DealName,
			"amount":    fmt.Sprintf("%g", deal.Amount),
			"dealstage": deal.DealStage,
			"deal_type": deal.DealType,
			"pipeline":  "default",
		},
		"associations": []map[string]any{{
			"to": map[string]string{"id": contactID},
			"types": []map[string]any{{
				"associationCategory": "HUBSPOT_DEFINED",
				"associationTypeId":   3,
			}},
		}},
	}

	var created objectResponse
	if err := c.do(ctx, http.MethodPost, "/crm/v3/objects/deals", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hubspot: %s %s: status %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(respBody, dest)
}
