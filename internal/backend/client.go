// Package backend talks to the PharmaChain REST API. Every portal feature
// that needs inventory, orders, accounts or payments goes through here.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

// maxBody caps how much of a backend response is read.
const maxBody = 10 << 20

type Config struct {
	BaseURL string
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

type response struct {
	status int
	body   []byte
}

type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[response]
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	threshold := cfg.FailureThreshold
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
			Name:    "pharmachain-backend",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			// 4xx answers are the caller's fault and must not trip the breaker.
			IsSuccessful: func(err error) bool {
				var apiErr *apierr.Error
				return err == nil || (errors.As(err, &apiErr) && apiErr.Status < 500) || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnf("circuit breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

type request struct {
	method      string
	path        string
	token       string
	query       url.Values
	contentType string
	body        []byte
}

func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	res, err := c.breaker.Execute(func() (response, error) {
		u := c.base + r.path
		if len(r.query) > 0 {
			u += "?" + r.query.Encode()
		}
		var body io.Reader
		if r.body != nil {
			body = bytes.NewReader(r.body)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, u, body)
		if err != nil {
			return response{}, err
		}
		req.Header.Set("Accept", "application/json")
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		if r.token != "" {
			req.Header.Set("Authorization", "Bearer "+r.token)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return response{}, err
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return response{}, err
		}
		out := response{status: resp.StatusCode, body: raw}
		if resp.StatusCode >= 300 {
			return out, &apierr.Error{Status: resp.StatusCode, Message: messageOf(raw)}
		}
		return out, nil
	})

	var apiErr *apierr.Error
	switch {
	case err == nil:
		return res.body, nil
	case errors.As(err, &apiErr):
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, apierr.ErrUnavailable
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		log.Errorf("backend %s %s: %v", r.method, r.path, err)
		return nil, fmt.Errorf("%w: %v", apierr.ErrUnavailable, err)
	}
}

// do sends in as JSON (when non-nil) and decodes the answer into out
// (when non-nil).
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	raw, err := c.call(ctx, method, path, token, query, in)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func (c *Client) call(ctx context.Context, method, path, token string, query url.Values, in any) ([]byte, error) {
	r := request{method: method, path: path, token: token, query: query}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		r.body = b
		r.contentType = "application/json"
	}
	return c.send(ctx, r)
}

// doMultipart sends fields and files as multipart/form-data.
func (c *Client) doMultipart(ctx context.Context, method, path, token string, fields map[string]string, files []*upload.File) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.send(ctx, request{method: method, path: path, token: token, contentType: w.FormDataContentType(), body: buf.Bytes()})
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// unwrap decodes raw[key] when raw is an object holding key, else raw itself.
// The backend is not consistent about enveloping single resources.
func unwrap(raw []byte, key string, out any) error {
	var env map[string]json.RawMessage
	if json.Unmarshal(raw, &env) == nil {
		if v, ok := env[key]; ok {
			return decode(v, out)
		}
	}
	return decode(raw, out)
}

func messageOf(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}
