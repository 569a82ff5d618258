package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"modguard/internal/constants"
	"modguard/internal/logger"
	"modguard/pkg/circuitbreaker"
)

// HTTPGateway talks to the bot gateway's REST API. Requests run through a
// circuit breaker so a dead gateway fails fast instead of stalling every
// dispatch.
type HTTPGateway struct {
	baseURL string
	token   string
	client  *http.Client
	breaker *circuitbreaker.Wrapper
	logger  logger.Logger
}

func NewHTTPGateway(baseURL, token string, log logger.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
		breaker: circuitbreaker.NewWrapper(circuitbreaker.DefaultConfig("platform-gateway")),
		logger:  log,
	}
}

type messagePayload struct {
	Content string `json:"content,omitempty"`
	Embed   *Embed `json:"embed,omitempty"`
}

func (g *HTTPGateway) SendDirectMessage(ctx context.Context, actorID, content string, embed Embed) error {
	payload := messagePayload{Content: content}
	if !embed.Empty() {
		payload.Embed = &embed
	}
	return g.post(ctx, fmt.Sprintf("/api/users/%s/messages", actorID), payload)
}

func (g *HTTPGateway) SendToChannel(ctx context.Context, channelID, content string, embed Embed) error {
	payload := messagePayload{Content: content}
	if !embed.Empty() {
		payload.Embed = &embed
	}
	return g.post(ctx, fmt.Sprintf("/api/channels/%s/messages", channelID), payload)
}

func (g *HTTPGateway) IssueInfraction(ctx context.Context, req InfractionRequest) error {
	return g.post(ctx, "/api/infractions", req)
}

func (g *HTTPGateway) ForceRename(ctx context.Context, actorID string, expiresAt *time.Time, reason string) error {
	payload := struct {
		Reason    string     `json:"reason,omitempty"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}{Reason: reason, ExpiresAt: expiresAt}
	return g.post(ctx, fmt.Sprintf("/api/users/%s/superstar", actorID), payload)
}

func (g *HTTPGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("/api/channels/%s/messages/%s", channelID, messageID), nil)
}

func (g *HTTPGateway) SendAlert(ctx context.Context, channelID string, alert Alert) error {
	return g.post(ctx, fmt.Sprintf("/api/channels/%s/alerts", channelID), alert)
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload interface{}) error {
	return g.do(ctx, http.MethodPost, path, payload)
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, payload interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	// Forbidden and not-found are expected outcomes, not gateway failures;
	// they must not trip the breaker.
	var expectedErr error
	err := g.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if g.token != "" {
			req.Header.Set("Authorization", "Bearer "+g.token)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return fmt.Errorf("gateway request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusForbidden:
			expectedErr = ErrForbidden
			return nil
		case resp.StatusCode == http.StatusNotFound:
			expectedErr = ErrNotFound
			return nil
		case resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax:
			return fmt.Errorf("gateway returned status %d for %s %s", resp.StatusCode, method, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return expectedErr
}
