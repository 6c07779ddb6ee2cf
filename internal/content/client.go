// Package content talks to the external content API.
//
// There are two tiers. Client is strict: every non-2xx status, transport
// failure or malformed body is returned as a *FetchError. Fetcher is the
// page-level tier: it caches, logs once and returns Results so each page
// picks its own fallback.
package content

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

	"github.com/insurancevn/insurancenews/internal/config"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/version"
)

// FetchError describes a failed content API call.
type FetchError struct {
	Endpoint   string
	StatusCode int // zero when no response was received
	classified *ferrors.ClassifiedError
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.classified.Message())
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.classified)
}

// Unwrap exposes the classified error so ferrors.HasCategory and errors.Is
// see through a FetchError.
func (e *FetchError) Unwrap() error { return e.classified }

// Category is not_found, network or decode.
func (e *FetchError) Category() ferrors.ErrorCategory { return e.classified.Category() }

func (e *FetchError) NotFound() bool { return e.Category() == ferrors.CategoryNotFound }

func newStatusError(endpoint string, status int) *FetchError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = "unexpected status"
	}
	b := ferrors.NetworkError(msg)
	if status == http.StatusNotFound {
		b = ferrors.NotFoundError(msg)
	}
	return &FetchError{
		Endpoint:   endpoint,
		StatusCode: status,
		classified: b.WithContext("endpoint", endpoint).WithContext("status", status).Build(),
	}
}

func newTransportError(endpoint string, err error) *FetchError {
	return &FetchError{
		Endpoint:   endpoint,
		classified: ferrors.WrapError(err, ferrors.CategoryNetwork, "content API request failed").
			Retryable().WithContext("endpoint", endpoint).Build(),
	}
}

func newDecodeError(endpoint string, err error) *FetchError {
	return &FetchError{
		Endpoint:   endpoint,
		classified: ferrors.WrapError(err, ferrors.CategoryDecode, "malformed content API response").
			WithContext("endpoint", endpoint).Build(),
	}
}

// AsFetchError converts any error into a *FetchError, classifying unknown
// errors as network failures.
func AsFetchError(endpoint string, err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return newTransportError(endpoint, err)
}

// Client is the strict content API client. Endpoints are relative to
// BaseURL+Prefix, e.g. "/articles/abc".
type Client struct {
	baseURL  string
	prefix   string
	maxBytes int64
	http     *http.Client
}

// NewHTTPClient returns an http.Client that refuses cross-host redirects and
// gives up after five hops.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return errors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// NewClient builds a Client from the API configuration. A nil httpClient
// gets NewHTTPClient(cfg.Timeout).
func NewClient(cfg config.APIConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout)
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		prefix:   "/" + strings.Trim(cfg.Prefix, "/"),
		maxBytes: maxBytes,
		http:     httpClient,
	}
}

// URL returns the absolute URL of endpoint. It is also the cache key.
func (c *Client) URL(endpoint string) string {
	if c.prefix == "/" {
		return c.baseURL + endpoint
	}
	return c.baseURL + c.prefix + endpoint
}

// Get decodes the JSON response of endpoint into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	body, err := c.GetRaw(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newDecodeError(endpoint, err)
	}
	return nil
}

// Post sends body as JSON and decodes the response into out. A nil out
// discards the response body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode request body").Build()
	}
	resp, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return newDecodeError(endpoint, err)
	}
	return nil
}

// GetRaw returns the body of a successful GET without decoding it.
func (c *Client) GetRaw(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint), body)
	if err != nil {
		return nil, newTransportError(endpoint, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "insurancenews/"+version.Version)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, newStatusError(endpoint, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, newTransportError(endpoint, fmt.Errorf("read response: %w", err))
	}
	if int64(len(data)) > c.maxBytes {
		return nil, newDecodeError(endpoint, fmt.Errorf("response exceeds %d bytes", c.maxBytes))
	}
	return data, nil
}
