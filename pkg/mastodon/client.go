package mastodon

// Package mastodon is a minimal client for the Mastodon REST API covering the
// operations the welcome bot needs: password-grant login, hashtag timelines,
// and posting statuses.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/samvad-welcome-bot/internal/domain"
	"github.com/samvad-hq/samvad-welcome-bot/internal/logger"
	"github.com/samvad-hq/samvad-welcome-bot/pkg/httpclient"
)

const (
	defaultTimeout = 15 * time.Second

	// Scopes requested at login. Reading timelines needs read:statuses;
	// posting replies needs write:statuses.
	loginScopes = "read:statuses write:statuses"
)

// Credentials carries the OAuth2 password-grant inputs.
type Credentials struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

// TimelineQuery narrows a hashtag timeline fetch.
type TimelineQuery struct {
	SinceID string
	MaxID   string
	Limit   int
	Local   bool
}

// Client talks to a single Mastodon instance. Login must succeed before the
// timeline and status calls are usable.
type Client struct {
	baseURL     string
	client      *resty.Client
	accessToken string
	log         logger.Logger
}

// NewClient builds a client for the instance at baseURL.
func NewClient(baseURL string, log logger.Logger) *Client {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewRestyClient(defaultTimeout),
		log:     log,
	}
}

// Login exchanges the credentials for a bearer token via the OAuth2
// resource-owner password grant. The token is kept on the client for all
// subsequent calls.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "password",
			"client_id":     creds.ClientID,
			"client_secret": creds.ClientSecret,
			"username":      creds.Username,
			"password":      creds.Password,
			"scope":         loginScopes,
		}).
		Post(c.baseURL + "/oauth/token")
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("token request status %d: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
	}
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("token response contains no access token")
	}

	c.accessToken = token.AccessToken
	c.log.InfoObj("authenticated", "auth_meta", map[string]any{
		"base_url": c.baseURL,
		"scope":    token.Scope,
	})
	return nil
}

// TimelineHashtag fetches recent statuses tagged with hashtag, newest first.
func (c *Client) TimelineHashtag(ctx context.Context, hashtag string, q TimelineQuery) ([]domain.Status, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("not authenticated: call Login first")
	}

	params := map[string]string{}
	if q.SinceID != "" {
		params["since_id"] = q.SinceID
	}
	if q.MaxID != "" {
		params["max_id"] = q.MaxID
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Local {
		params["local"] = "true"
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.accessToken).
		SetQueryParams(params).
		Get(c.baseURL + "/api/v1/timelines/tag/" + url.PathEscape(strings.TrimPrefix(hashtag, "#")))
	if err != nil {
		return nil, fmt.Errorf("timeline request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("timeline request status %d: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	var statuses []domain.Status
	if err := json.Unmarshal(resp.Body(), &statuses); err != nil {
		return nil, fmt.Errorf("decode timeline response: %w", err)
	}
	return statuses, nil
}

// PostStatus creates a status. inReplyToID may be empty for a top-level post.
func (c *Client) PostStatus(ctx context.Context, text, inReplyToID, visibility string) (domain.Status, error) {
	if c.accessToken == "" {
		return domain.Status{}, fmt.Errorf("not authenticated: call Login first")
	}

	form := map[string]string{"status": text}
	if inReplyToID != "" {
		form["in_reply_to_id"] = inReplyToID
	}
	if visibility != "" {
		form["visibility"] = visibility
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.accessToken).
		SetFormData(form).
		Post(c.baseURL + "/api/v1/statuses")
	if err != nil {
		return domain.Status{}, fmt.Errorf("post status request: %w", err)
	}
	if resp.IsError() {
		return domain.Status{}, fmt.Errorf("post status request status %d: %s", resp.StatusCode(), responseSnippet(resp.Body()))
	}

	var st domain.Status
	if err := json.Unmarshal(resp.Body(), &st); err != nil {
		return domain.Status{}, fmt.Errorf("decode post status response: %w", err)
	}
	return st, nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
