// Package api wraps every outbound call with auth-header injection,
// token-expiry pre-checks and uniform error normalization, and shapes the
// typed requests for the user, delivery and location backends.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/auth"
	"github.com/rc-foods/courier-client/internal/config"
	"github.com/rc-foods/courier-client/pkg/apierror"
)

// Envelope is the uniform success wrapper around a backend payload.
type Envelope struct {
	Success bool
	Message string
	Data    json.RawMessage
}

// Client dispatches JSON requests to one backend service. It attaches the
// bearer token when a valid one is stored, never retries on its own, and
// clears the stored tokens on a 401 so the next authenticated check fails
// fast instead of replaying a dead token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	service    string
	tokens     *auth.TokenStore
	logger     *zap.Logger
}

// NewClient builds a pipeline client for one service base URL.
func NewClient(service, baseURL string, httpCfg config.HTTPConfig, tokens *auth.TokenStore, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: httpCfg.RequestTimeout()},
		baseURL:    baseURL,
		service:    service,
		tokens:     tokens,
		logger:     logger.With(zap.String("service", service)),
	}
}

// Get issues a GET and decodes the payload into out when non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do runs the full pipeline for one request. Every failure surfaces as a
// normalized *apierror.Error; nothing is swallowed or retried here.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (*Envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apierror.Coerce(fmt.Errorf("encode request body: %w", err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, apierror.Coerce(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.attachToken(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed before a response arrived",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, apierror.NewNetwork(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apierror.NewNetwork(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.normalizeFailure(ctx, method, path, resp.StatusCode, raw)
	}

	envelope := &Envelope{Success: true, Data: raw}
	var probe struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &probe) == nil {
		envelope.Message = probe.Message
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, apierror.Coerce(fmt.Errorf("decode response body: %w", err))
		}
	}

	c.logger.Debug("request completed",
		zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
	return envelope, nil
}

// attachToken applies the pre-flight rule: a valid token rides along as a
// bearer credential, an expired one is removed from storage and the
// request proceeds unauthenticated for the server to judge.
func (c *Client) attachToken(ctx context.Context, req *http.Request) {
	token, ok, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.logger.Warn("unable to read access token", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if c.tokens.IsExpired(token) {
		c.logger.Debug("access token expired, removing from storage")
		if err := c.tokens.ClearAccessToken(ctx); err != nil {
			c.logger.Warn("unable to remove expired access token", zap.Error(err))
		}
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) normalizeFailure(ctx context.Context, method, path string, status int, raw []byte) error {
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	apiErr := apierror.FromResponse(status, body)
	c.logger.Warn("request rejected",
		zap.String("method", method), zap.String("path", path),
		zap.Int("status", status), zap.String("code", apiErr.Code))

	if apierror.IsAuth(apiErr) {
		if err := c.tokens.ClearTokens(ctx); err != nil {
			c.logger.Warn("unable to clear tokens after auth failure", zap.Error(err))
		}
	}
	return apiErr
}

const maxResponseBytes = 8 << 20
