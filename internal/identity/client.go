package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"social-app/content-service/internal/models"
)

// Provider is the account/session lifecycle boundary.
type Provider interface {
	CreateIdentity(ctx context.Context, email, secret, displayName string) (string, error)
	DeleteIdentity(ctx context.Context, identityID string) error
	UpdateField(ctx context.Context, identityID, field, value string) error
	CreateSession(ctx context.Context, identityID, secret string) (string, error)
	DeleteSession(ctx context.Context, sessionRef string) error
	SendVerificationCode(ctx context.Context, email string) (string, error)
}

// Client talks to the identity provider over its JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

func (c *Client) CreateIdentity(ctx context.Context, email, secret, displayName string) (string, error) {
	var out struct {
		IdentityID string `json:"identity_id"`
	}
	payload := map[string]string{"email": email, "secret": secret, "display_name": displayName}
	if err := c.do(ctx, http.MethodPost, "/v1/identities", payload, &out); err != nil {
		return "", err
	}
	return out.IdentityID, nil
}

func (c *Client) DeleteIdentity(ctx context.Context, identityID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/identities/"+identityID, nil, nil)
}

func (c *Client) UpdateField(ctx context.Context, identityID, field, value string) error {
	payload := map[string]string{"field": field, "value": value}
	return c.do(ctx, http.MethodPatch, "/v1/identities/"+identityID, payload, nil)
}

func (c *Client) CreateSession(ctx context.Context, identityID, secret string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"identity_id": identityID, "secret": secret}
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", payload, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionRef string) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions/"+sessionRef, nil, nil)
}

func (c *Client) SendVerificationCode(ctx context.Context, email string) (string, error) {
	var out struct {
		ChallengeID string `json:"challenge_id"`
	}
	payload := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/v1/verification", payload, &out); err != nil {
		return "", err
	}
	return out.ChallengeID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", models.ErrIdentityProvider, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", models.ErrNotFound, method, path)
	}
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s %s: %d: %s", models.ErrIdentityProvider, method, path, resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s %s: %v", models.ErrIdentityProvider, method, path, err)
		}
	}
	return nil
}
