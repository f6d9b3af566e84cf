package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/immodash/immodash/internal/utils"
)

// Attachment is an optional binary file sent alongside the notes.
type Attachment struct {
	// Data is the base64-encoded file content.
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

// GenerateRequest is the provider-neutral form of one model call.
type GenerateRequest struct {
	SystemInstruction string
	Text              string
	Attachment        []byte
	AttachmentMIME    string
	Temperature       float32
	JSONOutput        bool
	WebSearch         bool
}

// Generator performs a single model call and returns the raw text answer.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Name() string
}

// Config controls which provider backs the gateway.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Endpoint string
	// ProxyURL is the proxy endpoint used by the "proxy" provider.
	ProxyURL   string
	HTTPClient *http.Client
}

const (
	defaultProvider = "gemini"
)

// Gateway turns a report request into raw model output.
type Gateway struct {
	gen Generator
}

// NewGateway builds the provider named in cfg.
func NewGateway(ctx context.Context, cfg Config) (*Gateway, error) {
	gen, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Gateway{gen: gen}, nil
}

// NewGenerator builds a concrete Generator implementation based on the provided config.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	cfg.Provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}

	switch cfg.Provider {
	case "gemini":
		return newGeminiGenerator(ctx, cfg)
	case "proxy":
		return newProxyGenerator(cfg)
	case "openai":
		return newOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// NewGatewayWithGenerator wraps an existing Generator.
func NewGatewayWithGenerator(gen Generator) *Gateway {
	return &Gateway{gen: gen}
}

// Request sends one report request and returns the model's text with any
// surrounding markdown code fence removed. There are no retries.
func (g *Gateway) Request(ctx context.Context, kind ReportKind, text string, att *Attachment) (string, error) {
	if _, ok := templates[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	text = strings.TrimSpace(text)
	if looksLikeHTML(text) {
		text = PlainText(text)
	}

	req := GenerateRequest{
		SystemInstruction: kind.Instruction(),
		Text:              text,
		Temperature:       kind.Temperature(),
		JSONOutput:        true,
		WebSearch:         kind.usesWebSearch(),
	}

	if att != nil && att.Data != "" {
		data, err := base64.StdEncoding.DecodeString(att.Data)
		if err != nil {
			return "", fmt.Errorf("attachment is not valid base64: %w", err)
		}
		req.Attachment = data
		req.AttachmentMIME = att.MimeType
	}

	if req.Text == "" && len(req.Attachment) == 0 {
		return "", ErrEmptyInput
	}

	utils.Log.Debugf("[ai] %s request via %s (text %d chars, attachment %d bytes)", kind, g.gen.Name(), len(req.Text), len(req.Attachment))

	out, err := g.gen.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			return "", err
		}
		var perr *ProviderError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", newProviderError(g.gen.Name(), err)
	}

	return StripCodeFences(out), nil
}

// StripCodeFences removes a leading ``` or ```json marker and a trailing ```.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl != -1 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
