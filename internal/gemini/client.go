// Package gemini wraps the Google generative language REST API for the two
// product surfaces that use it: quiz archetype analysis and the members-only
// chat advisor. Both degrade to deterministic fallbacks when the upstream is
// down, so the funnel never hard-fails on a model outage.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"debteraser/internal/observability"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
)

// QuizAnswer is one answered quiz question.
type QuizAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Result is the archetype analysis produced for a completed quiz. Degraded
// is true when the values came from the deterministic fallback rather than
// the model, so callers and clients can tell canned output from real output.
type Result struct {
	Archetype string `json:"archetype"`
	Plan      string `json:"plan"`
	PDFStack  string `json:"pdfStack"`
	Degraded  bool   `json:"degraded,omitempty"`
}

// ChatTurn is one entry in a chat session's history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the generative language API over plain HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient returns a client for the given API key. An empty key produces a
// client whose calls always take the fallback path.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
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

// Wire types for the generateContent endpoint.

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate content: status %d: %s", resp.StatusCode, truncate(respBody, 256))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("generate content: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate content: empty candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// AnalyzeQuiz maps quiz answers to an archetype, battle plan, and document
// stack label. It never returns an error to its caller for upstream trouble;
// a model failure or unparseable reply yields the fallback result with
// Degraded set.
func (c *Client) AnalyzeQuiz(ctx context.Context, answers []QuizAnswer) *Result {
	if !c.Enabled() {
		observability.AICalls.WithLabelValues("quiz", "degraded").Inc()
		return fallbackResult()
	}

	var sb strings.Builder
	sb.WriteString("User Profile:\n")
	for _, a := range answers {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Question, a.Answer)
	}
	sb.WriteString("\nAnalyze and provide JSON output.")

	text, err := c.generate(ctx, generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: quizSystemPrompt}}},
		Contents:          []generateContent{{Role: "user", Parts: []generatePart{{Text: sb.String()}}}},
		GenerationConfig: &generationConfig{
			Temperature:      0.7,
			MaxOutputTokens:  500,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		c.logger.WarnContext(ctx, "quiz analysis degraded", "error", err)
		observability.AICalls.WithLabelValues("quiz", "degraded").Inc()
		return fallbackResult()
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil || result.Archetype == "" || result.Plan == "" || result.PDFStack == "" {
		c.logger.WarnContext(ctx, "quiz analysis returned malformed JSON", "error", err)
		observability.AICalls.WithLabelValues("quiz", "degraded").Inc()
		return fallbackResult()
	}

	if _, ok := knownStacks[result.PDFStack]; !ok {
		c.logger.WarnContext(ctx, "quiz analysis produced unknown stack label", "pdf_stack", result.PDFStack)
		observability.UnknownStackLabels.Inc()
	}

	observability.AICalls.WithLabelValues("quiz", "ok").Inc()
	return &result
}

// Chat sends the session history plus the new message to the model and
// returns the reply. On upstream failure it returns the canned interference
// reply and degraded=true.
func (c *Client) Chat(ctx context.Context, history []ChatTurn, message string) (reply string, degraded bool) {
	if !c.Enabled() {
		observability.AICalls.WithLabelValues("chat", "degraded").Inc()
		return ChatFallbackReply, true
	}

	contents := make([]generateContent, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role == "assistant" {
			role = "model"
		}
		contents = append(contents, generateContent{Role: role, Parts: []generatePart{{Text: turn.Content}}})
	}
	contents = append(contents, generateContent{Role: "user", Parts: []generatePart{{Text: message}}})

	text, err := c.generate(ctx, generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: chatSystemPrompt}}},
		Contents:          contents,
		GenerationConfig: &generationConfig{
			Temperature:     0.8,
			MaxOutputTokens: 800,
		},
	})
	if err != nil {
		c.logger.WarnContext(ctx, "chat reply degraded", "error", err)
		observability.AICalls.WithLabelValues("chat", "degraded").Inc()
		return ChatFallbackReply, true
	}

	observability.AICalls.WithLabelValues("chat", "ok").Inc()
	return text, false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
