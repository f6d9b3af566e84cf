package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	defaultOpenAIModel    = "gpt-4.1-mini"
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
)

type openAIGenerator struct {
	apiKey   string
	model    string
	endpoint string
	client   *retryablehttp.Client
}

func newOpenAIGenerator(cfg Config) (*openAIGenerator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultOpenAIEndpoint
	}

	return &openAIGenerator{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		model:    model,
		endpoint: endpoint,
		client:   newHTTPClient(cfg),
	}, nil
}

func (o *openAIGenerator) Name() string {
	return "openai"
}

func (o *openAIGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if o.apiKey == "" {
		return "", ErrMissingCredential
	}

	userMsg, err := openAIUserMessage(req)
	if err != nil {
		return "", err
	}

	reqBody := openAIChatRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.SystemInstruction},
			userMsg,
		},
		Temperature: req.Temperature,
	}
	if req.JSONOutput {
		reqBody.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	status, body, err := postJSON(ctx, o.client, o.endpoint, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}, reqBody)
	if err != nil {
		return "", newProviderError(o.Name(), err)
	}

	if status >= 300 {
		if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
			return "", newProviderError(o.Name(), errors.New(msg))
		}
		return "", newProviderError(o.Name(), fmt.Errorf("HTTP %d", status))
	}

	content := strings.TrimSpace(gjson.GetBytes(body, "choices.0.message.content").String())
	if content == "" {
		return "", newProviderError(o.Name(), errors.New("the model returned an empty response"))
	}
	return content, nil
}

func openAIUserMessage(req GenerateRequest) (openAIMessage, error) {
	if len(req.Attachment) == 0 {
		return openAIMessage{Role: "user", Content: req.Text}, nil
	}
	if !strings.HasPrefix(req.AttachmentMIME, "image/") {
		return openAIMessage{}, fmt.Errorf("openai provider only accepts image attachments, got %q", req.AttachmentMIME)
	}

	dataURL := "data:" + req.AttachmentMIME + ";base64," + base64.StdEncoding.EncodeToString(req.Attachment)
	parts := []openAIContentPart{}
	if req.Text != "" {
		parts = append(parts, openAIContentPart{Type: "text", Text: req.Text})
	}
	parts = append(parts, openAIContentPart{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}})
	return openAIMessage{Role: "user", Content: parts}, nil
}

type openAIChatRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float32               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role string `json:"role"`
	// Content is a string, or a list of parts when an image is attached.
	Content any `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}
