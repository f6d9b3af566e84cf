package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply string
	err   error
	got   []GenerateRequest
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	f.got = append(f.got, req)
	return f.reply, f.err
}

func TestGatewayRequestBuildsPerKindRequest(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"ok\":true}\n```"}
	gw := NewGatewayWithGenerator(gen)

	out, err := gw.Request(context.Background(), KindTechnical, "  toiture à refaire  ", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	require.Len(t, gen.got, 1)
	req := gen.got[0]
	assert.Equal(t, technicalPrompt, req.SystemInstruction)
	assert.Equal(t, "toiture à refaire", req.Text)
	assert.True(t, req.JSONOutput)
	assert.InDelta(t, 0.2, req.Temperature, 0.0001)
	assert.Empty(t, req.Attachment)
}

func TestGatewayTemperaturesInRange(t *testing.T) {
	for _, k := range AllReportKinds {
		temp := k.Temperature()
		assert.GreaterOrEqual(t, temp, float32(0.2), string(k))
		assert.LessOrEqual(t, temp, float32(0.7), string(k))
		assert.NotEmpty(t, k.Instruction(), string(k))
	}
	assert.Len(t, AllReportKinds, 10)
}

func TestGatewayAttachment(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}
	gw := NewGatewayWithGenerator(gen)

	raw := []byte{0x89, 'P', 'N', 'G'}
	att := &Attachment{Data: base64.StdEncoding.EncodeToString(raw), MimeType: "image/png"}
	_, err := gw.Request(context.Background(), KindDPE, "", att)
	require.NoError(t, err)
	assert.Equal(t, raw, gen.got[0].Attachment)
	assert.Equal(t, "image/png", gen.got[0].AttachmentMIME)

	_, err = gw.Request(context.Background(), KindDPE, "", &Attachment{Data: "%%%", MimeType: "image/png"})
	assert.Error(t, err)
}

func TestGatewayRejectsEmptyInput(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}
	gw := NewGatewayWithGenerator(gen)

	_, err := gw.Request(context.Background(), KindStreet, "   ", nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, gen.got, "no call must be made")
}

func TestGatewayWrapsProviderFailures(t *testing.T) {
	long := strings.Repeat("x", 500)
	gen := &fakeGenerator{err: errors.New(long)}
	gw := NewGatewayWithGenerator(gen)

	_, err := gw.Request(context.Background(), KindCopro, "notes", nil)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "fake", perr.Provider)
	assert.LessOrEqual(t, len([]rune(perr.Diagnostic)), diagnosticLimit+3)
	assert.Contains(t, UserMessage(err), "Erreur technique")
}

func TestGatewayPassesMissingCredential(t *testing.T) {
	gen := &fakeGenerator{err: ErrMissingCredential}
	gw := NewGatewayWithGenerator(gen)

	_, err := gw.Request(context.Background(), KindCopro, "notes", nil)
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestGatewayUnknownKind(t *testing.T) {
	gw := NewGatewayWithGenerator(&fakeGenerator{})
	_, err := gw.Request(context.Background(), ReportKind("weather"), "x", nil)
	assert.Error(t, err)
}

func TestGatewayCleansPastedHTML(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}
	gw := NewGatewayWithGenerator(gen)

	_, err := gw.Request(context.Background(), KindPige, "<div><h1>T3 lumineux</h1><p>250 000 €</p><script>track()</script></div>", nil)
	require.NoError(t, err)
	assert.Equal(t, "T3 lumineux\n250 000 €", gen.got[0].Text)
}

func TestParseReportKind(t *testing.T) {
	k, err := ParseReportKind(" DPE ")
	require.NoError(t, err)
	assert.Equal(t, KindDPE, k)

	_, err = ParseReportKind("meteo")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestUserMessageDistinguishesDecodeErrors(t *testing.T) {
	_, err := Decode("nope")
	msg := UserMessage(err)
	assert.Contains(t, msg, "JSON")
	assert.NotEqual(t, UserMessage(newProviderError("x", errors.New("boom"))), msg)
	assert.Contains(t, UserMessage(ErrMissingCredential), "Clé API")
	assert.Equal(t, "", UserMessage(nil))
}

func TestNewGeneratorUnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), Config{Provider: "llama"})
	assert.Error(t, err)

	_, err = NewGenerator(context.Background(), Config{Provider: "proxy"})
	assert.Error(t, err, "proxy provider needs a URL")
}

func TestGeminiGeneratorWithoutKey(t *testing.T) {
	gen, err := NewGenerator(context.Background(), Config{})
	require.NoError(t, err)
	assert.Equal(t, "gemini", gen.Name())

	_, err = gen.Generate(context.Background(), GenerateRequest{Text: "x"})
	require.ErrorIs(t, err, ErrMissingCredential)
}
