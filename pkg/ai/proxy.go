package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

// ProxyRequest is the body accepted by the proxy endpoint. Field names follow
// the Gemini REST API so that a browser client can build it directly.
type ProxyRequest struct {
	Contents          []*genai.Content       `json:"contents"`
	SystemInstruction *genai.Content         `json:"systemInstruction,omitempty"`
	Tools             []*genai.Tool          `json:"tools,omitempty"`
	GenerationConfig  *ProxyGenerationConfig `json:"generationConfig,omitempty"`
}

// ProxyGenerationConfig carries the optional sampling settings.
type ProxyGenerationConfig struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}

// ProxyResponse is the proxy endpoint's answer: exactly one field is set.
type ProxyResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ProxyBackend executes proxy requests with a server-held credential.
type ProxyBackend interface {
	Forward(ctx context.Context, req ProxyRequest) (string, error)
}

// NewProxyBackend returns the backend used by the proxy endpoint. Only the
// Gemini provider can serve the Gemini-shaped body.
func NewProxyBackend(ctx context.Context, cfg Config) (ProxyBackend, error) {
	return newGeminiGenerator(ctx, cfg)
}

// proxyGenerator calls a proxy endpoint instead of the provider, so the
// client never holds the key.
type proxyGenerator struct {
	url    string
	client *retryablehttp.Client
}

func newProxyGenerator(cfg Config) (*proxyGenerator, error) {
	url := strings.TrimSpace(cfg.ProxyURL)
	if url == "" {
		url = strings.TrimSpace(cfg.Endpoint)
	}
	if url == "" {
		return nil, errors.New("proxy provider requires ai.proxy_url")
	}
	return &proxyGenerator{url: url, client: newHTTPClient(cfg)}, nil
}

func (p *proxyGenerator) Name() string {
	return "proxy"
}

// BuildProxyRequest converts a provider-neutral request to the proxy body.
func BuildProxyRequest(req GenerateRequest) ProxyRequest {
	out := ProxyRequest{
		Contents:          []*genai.Content{userContent(req)},
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		GenerationConfig: &ProxyGenerationConfig{
			Temperature: genai.Ptr(req.Temperature),
		},
	}
	if req.WebSearch {
		out.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if req.JSONOutput {
		out.GenerationConfig.ResponseMIMEType = "application/json"
	}
	return out
}

func (p *proxyGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	status, body, err := postJSON(ctx, p.client, p.url, nil, BuildProxyRequest(req))
	if err != nil {
		return "", newProviderError(p.Name(), err)
	}

	if msg := gjson.GetBytes(body, "error").String(); msg != "" {
		return "", newProviderError(p.Name(), fmt.Errorf("HTTP %d: %s", status, msg))
	}
	if status >= 300 {
		return "", newProviderError(p.Name(), fmt.Errorf("HTTP %d", status))
	}

	text := gjson.GetBytes(body, "text").String()
	if strings.TrimSpace(text) == "" {
		return "", newProviderError(p.Name(), errors.New("the proxy returned an empty response"))
	}
	return text, nil
}
