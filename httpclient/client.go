package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/trascrivi/logger"
)

// Client sends requests built from Request values and classifies failures
// into *Error.
type Client struct {
	hc  *http.Client
	cfg Config
	log *logger.Logger
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Client{
		hc:  &http.Client{Transport: transport, Timeout: cfg.Timeout},
		cfg: cfg,
		log: logger.Get("httpclient"),
	}, nil
}

// Do sends req and reads the response body up to MaxResponseBytes. For
// non-2xx statuses it returns both the response and a classified *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		c.trace(httpReq, 0, start, err)
		if isTimeout(ctx, err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := c.readBody(resp.Body)
	c.trace(httpReq, resp.StatusCode, start, err)
	if err != nil {
		return nil, err
	}

	out := &Response{StatusCode: resp.StatusCode, Headers: firstValues(resp.Header), Body: body}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return out, classErr
	}
	return out, nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	limit := c.cfg.MaxResponseBytes
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, NewNetworkError(fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, NewValidationError(fmt.Sprintf("response body exceeds %d bytes", limit))
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}
	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	h := httpReq.Header
	h.Set("User-Agent", c.cfg.UserAgent)
	for _, headers := range []map[string]string{c.cfg.Headers, req.Headers} {
		for k, v := range headers {
			h.Set(k, v)
		}
	}
	if body != nil && contentType != "" && h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentType)
	}
	if req.Auth != nil {
		req.Auth.apply(h)
	} else {
		c.cfg.Auth.apply(h)
	}
	return httpReq, nil
}

// resolve joins path to BaseURL unless path is already absolute.
func (c *Client) resolve(path string) string {
	if c.cfg.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) trace(req *http.Request, status int, start time.Time, err error) {
	fields := map[string]interface{}{
		"method":             req.Method,
		"host":               req.URL.Host,
		"path":               req.URL.Path,
		logger.FieldStatus:   status,
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
	}
	c.log.WithContext(req.Context()).Debug("outbound request", fields)
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func firstValues(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
