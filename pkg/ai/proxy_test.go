package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestProxyGeneratorSendsGeminiShapedBody(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(ProxyResponse{Text: `{"intent":"reset_campaign"}`})
	}))
	defer srv.Close()

	gen, err := NewGenerator(context.Background(), Config{Provider: "proxy", ProxyURL: srv.URL})
	require.NoError(t, err)

	gw := NewGatewayWithGenerator(gen)
	out, err := gw.Request(context.Background(), KindProspection, "[RESET]", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"reset_campaign"}`, out)

	assert.Equal(t, "[RESET]", gjson.GetBytes(body, "contents.0.parts.0.text").String())
	assert.Equal(t, "user", gjson.GetBytes(body, "contents.0.role").String())
	assert.Equal(t, prospectionPrompt, gjson.GetBytes(body, "systemInstruction.parts.0.text").String())
	assert.Equal(t, "application/json", gjson.GetBytes(body, "generationConfig.responseMimeType").String())
	assert.InDelta(t, 0.2, gjson.GetBytes(body, "generationConfig.temperature").Float(), 0.0001)
	assert.False(t, gjson.GetBytes(body, "tools").Exists())
}

func TestProxyGeneratorStreetUsesSearchTool(t *testing.T) {
	req := BuildProxyRequest(GenerateRequest{Text: "rue", WebSearch: true, JSONOutput: true})
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	assert.True(t, gjson.GetBytes(raw, "tools.0.googleSearch").Exists())
	assert.False(t, gjson.GetBytes(raw, "generationConfig.responseMimeType").Exists())
}

func TestProxyGeneratorSurfacesProxyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProxyResponse{Error: "quota exceeded"})
	}))
	defer srv.Close()

	gen, err := NewGenerator(context.Background(), Config{Provider: "proxy", ProxyURL: srv.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerateRequest{Text: "x"})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Diagnostic, "quota exceeded")
	assert.Contains(t, perr.Diagnostic, "500")
}

func TestProxyGeneratorMakesExactlyOneCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gen, err := NewGenerator(context.Background(), Config{Provider: "proxy", ProxyURL: srv.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerateRequest{Text: "x"})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenAIGenerator(t *testing.T) {
	var body []byte
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"titre\":\"T3\"}"}}]}`))
	}))
	defer srv.Close()

	gen, err := NewGenerator(context.Background(), Config{Provider: "openai", APIKey: "sk-test", Endpoint: srv.URL})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), GenerateRequest{
		SystemInstruction: "sys",
		Text:              "notes",
		Temperature:       0.7,
		JSONOutput:        true,
		Attachment:        []byte("img"),
		AttachmentMIME:    "image/jpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"titre":"T3"}`, out)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "sys", gjson.GetBytes(body, "messages.0.content").String())
	assert.Equal(t, "notes", gjson.GetBytes(body, "messages.1.content.0.text").String())
	assert.Equal(t, "data:image/jpeg;base64,aW1n", gjson.GetBytes(body, "messages.1.content.1.image_url.url").String())
	assert.Equal(t, "json_object", gjson.GetBytes(body, "response_format.type").String())
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer srv.Close()

	gen, err := NewGenerator(context.Background(), Config{Provider: "openai", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), GenerateRequest{Text: "x"})
	require.ErrorIs(t, err, ErrMissingCredential)

	gen, err = NewGenerator(context.Background(), Config{Provider: "openai", APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), GenerateRequest{Text: "x"})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "invalid key", perr.Diagnostic)

	_, err = gen.Generate(context.Background(), GenerateRequest{Text: "x", Attachment: []byte("%PDF"), AttachmentMIME: "application/pdf"})
	assert.Error(t, err)
}
