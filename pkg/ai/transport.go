package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// newHTTPClient returns the client shared by the HTTP-based providers.
// Requests are single-shot: one user action is one call.
func newHTTPClient(cfg Config) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = 0
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, nil
	}
	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}
	return client
}

// postJSON sends body as JSON and returns the status code and full response body.
func postJSON(ctx context.Context, client *retryablehttp.Client, url string, headers map[string]string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}
