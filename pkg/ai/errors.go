package ai

import (
	"errors"
	"fmt"

	"github.com/immodash/immodash/internal/utils"
)

var (
	// ErrMissingCredential means no API key is configured for the provider.
	ErrMissingCredential = errors.New("ai: missing API credential")
	// ErrEmptyInput means neither text nor attachment was provided.
	ErrEmptyInput = errors.New("ai: empty input")
	// ErrUnknownKind means the report kind is not one of AllReportKinds.
	ErrUnknownKind = errors.New("ai: unknown report kind")
)

const diagnosticLimit = 200

// ProviderError wraps a network or provider failure with a short diagnostic
// suitable for display.
type ProviderError struct {
	Provider   string
	Diagnostic string
	Err        error
}

func newProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Diagnostic: utils.Truncate(err.Error(), diagnosticLimit),
		Err:        err,
	}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Diagnostic)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when model output cannot be turned into JSON.
type DecodeError struct {
	// Err is the failure of the first, unmodified parse attempt.
	Err error
	// Input is a truncated copy of the offending text.
	Input string
}

func (e *DecodeError) Error() string {
	return "json decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UserMessage maps an error from the gateway or decoder to the message shown
// to the agent.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var decodeErr *DecodeError
	var providerErr *ProviderError
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "Clé API manquante : configurez ai.api_key avant de générer un rapport."
	case errors.Is(err, ErrEmptyInput):
		return "Saisissez des notes ou joignez un fichier avant de lancer l'analyse."
	case errors.As(err, &decodeErr):
		return "La réponse de l'IA n'est pas un JSON valide. Relancez la génération."
	case errors.As(err, &providerErr):
		return "Erreur technique lors de l'appel à l'IA : " + providerErr.Diagnostic
	default:
		return "Erreur technique : " + utils.Truncate(err.Error(), diagnosticLimit)
	}
}
