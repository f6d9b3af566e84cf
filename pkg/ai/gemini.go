package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/immodash/immodash/internal/utils"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator talks to the Gemini API directly. The client is created on
// first use so that a missing key only fails the call that needs it.
type geminiGenerator struct {
	apiKey     string
	model      string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

func newGeminiGenerator(_ context.Context, cfg Config) (*geminiGenerator, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiGenerator{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		httpClient: cfg.HTTPClient,
	}, nil
}

func (g *geminiGenerator) Name() string {
	return "gemini"
}

func (g *geminiGenerator) getClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, ErrMissingCredential
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     g.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	})
	if err != nil {
		return nil, newProviderError(g.Name(), err)
	}
	g.client = client
	return client, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
	}
	// The API refuses a JSON MIME type together with the search tool; the
	// prompt still asks for JSON and the decoder copes with the rest.
	if req.WebSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if req.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	return g.generate(ctx, []*genai.Content{userContent(req)}, cfg)
}

// Forward serves the proxy endpoint: the browser-shaped request is replayed
// with the server-held key.
func (g *geminiGenerator) Forward(ctx context.Context, req ProxyRequest) (string, error) {
	if len(req.Contents) == 0 {
		return "", ErrEmptyInput
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: req.SystemInstruction,
		Tools:             req.Tools,
	}
	if gc := req.GenerationConfig; gc != nil {
		cfg.Temperature = gc.Temperature
		cfg.ResponseMIMEType = gc.ResponseMIMEType
	}
	return g.generate(ctx, req.Contents, cfg)
}

func (g *geminiGenerator) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", newProviderError(g.Name(), err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", newProviderError(g.Name(), errors.New("the model returned an empty response"))
	}
	utils.Log.Debugf("[ai] gemini answered %d chars", len(text))
	return text, nil
}

func userContent(req GenerateRequest) *genai.Content {
	var parts []*genai.Part
	if req.Text != "" {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}
	if len(req.Attachment) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment, req.AttachmentMIME))
	}
	return genai.NewContentFromParts(parts, genai.RoleUser)
}
