package prospection

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// IntentKind is the action the model inferred from the agent's message.
type IntentKind string

const (
	IntentLog    IntentKind = "log_prospection"
	IntentDelete IntentKind = "delete_request"
	IntentReset  IntentKind = "reset_campaign"
)

// DeleteScope selects which field a delete_request target is matched against.
type DeleteScope string

const (
	ScopeSingle DeleteScope = "single"
	ScopeMonth  DeleteScope = "month"
)

// LogData is the payload of a log_prospection intent. Empty fields fall back
// to defaults when applied.
type LogData struct {
	Zone string `json:"zone"`
	Type string `json:"type,omitempty"`
	Date string `json:"date,omitempty"`
	Mois string `json:"mois,omitempty"`
}

// Intent is one decoded instruction for the prospecting log.
type Intent struct {
	Kind    IntentKind  `json:"intent"`
	Data    LogData     `json:"data"`
	Target  string      `json:"target,omitempty"`
	Scope   DeleteScope `json:"scope,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ParseIntent reads an intent from a JSON document. target and scope are
// accepted either at the top level or under "data"; the reply text may be
// named "message" or "response".
func ParseIntent(doc string) (Intent, error) {
	if !gjson.Valid(doc) {
		return Intent{}, errors.New("intent is not valid JSON")
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return Intent{}, errors.New("intent must be a JSON object")
	}

	in := Intent{
		Kind: IntentKind(strings.TrimSpace(root.Get("intent").String())),
		Data: LogData{
			Zone: root.Get("data.zone").String(),
			Type: root.Get("data.type").String(),
			Date: root.Get("data.date").String(),
			Mois: root.Get("data.mois").String(),
		},
		Target:  firstString(root, "target", "data.target"),
		Scope:   DeleteScope(strings.ToLower(firstString(root, "scope", "data.scope"))),
		Message: firstString(root, "message", "response", "data.message"),
	}
	if in.Kind == "" {
		return Intent{}, errors.New("intent field is missing")
	}
	return in, nil
}

func firstString(root gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := strings.TrimSpace(root.Get(p).String()); v != "" {
			return v
		}
	}
	return ""
}
