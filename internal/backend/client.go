// Package backend talks to the hosted backend-as-a-service: its edge-function
// API for catalog, cart, wishlist, content, contact and gallery data, and its
// auth API for password sign-in.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrNotFound     = errors.New("backend: not found")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Config locates the backend project.
type Config struct {
	// ProjectURL is the project root, e.g. https://<ref>.supabase.co.
	ProjectURL string
	// FunctionsPath is the edge function serving the storefront routes.
	FunctionsPath string
	// AnonKey authorizes public, unauthenticated calls.
	AnonKey string
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
	cfg  Config
	log  *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.ProjectURL = strings.TrimRight(cfg.ProjectURL, "/")
	cfg.FunctionsPath = strings.Trim(cfg.FunctionsPath, "/")

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "frame-storefront/1.0").
		SetHeader("apikey", cfg.AnonKey)

	return &Client{http: client, cfg: cfg, log: log}
}

func (c *Client) functionsURL(path string) string {
	return c.cfg.ProjectURL + "/functions/v1/" + c.cfg.FunctionsPath + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) authURL(path string) string {
	return c.cfg.ProjectURL + "/auth/v1/" + strings.TrimLeft(path, "/")
}

// call sends one request to the edge-function API. An empty token means the
// public anon key. out, when non-nil, receives the decoded JSON body.
func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	return c.send(ctx, method, c.functionsURL(path), token, body, out)
}

func (c *Client) send(ctx context.Context, method, url, token string, body, out any) error {
	if token == "" {
		token = c.cfg.AnonKey
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("X-Request-ID", uuid.NewString())
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	started := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s %s: %w", method, url, err)
	}

	c.log.Debug("backend call",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(started)),
	)

	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, url, err)
	}
	return nil
}

// errorMessage pulls the message out of an {"error": ...} envelope, falling
// back to the raw body for non-JSON answers.
func errorMessage(body []byte) string {
	var envelope struct {
		Error            string `json:"error"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, m := range []string{envelope.Error, envelope.ErrorDescription, envelope.Message, envelope.Msg} {
			if m != "" {
				return m
			}
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "no error message"
}
