package ai

import (
	"fmt"
	"strings"
)

// ReportKind selects the system instruction and sampling settings of a request.
type ReportKind string

const (
	KindStreet      ReportKind = "street"
	KindTechnical   ReportKind = "technical"
	KindHeating     ReportKind = "heating"
	KindRenovation  ReportKind = "renovation"
	KindChecklist   ReportKind = "checklist"
	KindCopro       ReportKind = "copro"
	KindPige        ReportKind = "pige"
	KindDPE         ReportKind = "dpe"
	KindRedaction   ReportKind = "redaction"
	KindProspection ReportKind = "prospection"
)

// AllReportKinds lists the ten supported kinds.
var AllReportKinds = []ReportKind{
	KindStreet,
	KindTechnical,
	KindHeating,
	KindRenovation,
	KindChecklist,
	KindCopro,
	KindPige,
	KindDPE,
	KindRedaction,
	KindProspection,
}

type template struct {
	instruction string
	temperature float32
	// webSearch asks the provider to ground the answer with a search tool.
	webSearch bool
}

var templates = map[ReportKind]template{
	KindStreet:      {instruction: streetPrompt, temperature: 0.4, webSearch: true},
	KindTechnical:   {instruction: technicalPrompt, temperature: 0.2},
	KindHeating:     {instruction: heatingPrompt, temperature: 0.2},
	KindRenovation:  {instruction: renovationPrompt, temperature: 0.4},
	KindChecklist:   {instruction: checklistPrompt, temperature: 0.3},
	KindCopro:       {instruction: coproPrompt, temperature: 0.2},
	KindPige:        {instruction: pigePrompt, temperature: 0.3},
	KindDPE:         {instruction: dpePrompt, temperature: 0.3},
	KindRedaction:   {instruction: redactionPrompt, temperature: 0.7},
	KindProspection: {instruction: prospectionPrompt, temperature: 0.2},
}

// ParseReportKind validates a user-supplied kind name.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := templates[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Instruction returns the fixed system instruction of the kind.
func (k ReportKind) Instruction() string {
	return templates[k].instruction
}

// Temperature returns the fixed sampling temperature of the kind.
func (k ReportKind) Temperature() float32 {
	return templates[k].temperature
}

func (k ReportKind) usesWebSearch() bool {
	return templates[k].webSearch
}
