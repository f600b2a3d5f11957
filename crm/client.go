package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/jrsteele09/go-crm-sync/internal/metrics"
	"github.com/rs/zerolog"
)

const maxResponseBytes = 4 << 20

// Client talks to the CRM REST API. Authentication is the job of the
// http.Client it is given, normally one built by oauth2.NewClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     config.CRMConfig
}

func New(httpClient *http.Client, cfg config.CRMConfig) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.GetAPIBaseURL(), "/"),
		config:     cfg,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	err := c.roundTrip(ctx, method, path, query, in, out)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		zerolog.Ctx(ctx).Error().Err(err).Str("method", method).Str("path", path).Msg("CRM request failed")
	}
	metrics.CRMRequests.WithLabelValues(method, outcome).Inc()
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &APIError{Method: method, Path: path, Err: err}
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &APIError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		var envelope apiErrorBody
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.CorrelationID = envelope.CorrelationID
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}
