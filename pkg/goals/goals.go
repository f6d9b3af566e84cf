package goals

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

var (
	ErrNegative     = errors.New("goals: counters cannot be negative")
	ErrUnknownField = errors.New("goals: unknown field")
)

// Field names a counter of the monthly goals.
type Field string

const (
	FieldMandats     Field = "mandats"
	FieldCourriers   Field = "courriers"
	FieldPorteAPorte Field = "porteAPorte"
)

// Goals is the single active monthly goals record.
type Goals struct {
	Mandats          int    `json:"mandats"`
	Courriers        int    `json:"courriers"`
	PorteAPorte      int    `json:"porteAPorte"`
	BoitageValidated bool   `json:"boitageValidated"`
	Month            string `json:"month"`
}

// CurrentMonth returns now's month as YYYY-MM.
func CurrentMonth(now time.Time) string {
	return now.Format(monthLayout)
}

// New returns a zeroed record for now's month.
func New(now time.Time) Goals {
	return Goals{Month: CurrentMonth(now)}
}

// Rollover resets g when it belongs to another calendar month. The boolean
// reports whether a reset happened and must be persisted.
func Rollover(g Goals, now time.Time) (Goals, bool) {
	if g.Month == CurrentMonth(now) {
		return g, false
	}
	return New(now), true
}

// Set assigns a counter.
func (g Goals) Set(field Field, value int) (Goals, error) {
	if value < 0 {
		return g, ErrNegative
	}
	p, err := g.counter(field)
	if err != nil {
		return g, err
	}
	*p = value
	return g, nil
}

// Increment adds delta to a counter, clamping at zero.
func (g Goals) Increment(field Field, delta int) (Goals, error) {
	p, err := g.counter(field)
	if err != nil {
		return g, err
	}
	*p += delta
	if *p < 0 {
		*p = 0
	}
	return g, nil
}

// WithBoitage sets the boitage validation flag.
func (g Goals) WithBoitage(validated bool) Goals {
	g.BoitageValidated = validated
	return g
}

// counter points into the receiver copy, so callers return that copy.
func (g *Goals) counter(field Field) (*int, error) {
	switch field {
	case FieldMandats:
		return &g.Mandats, nil
	case FieldCourriers:
		return &g.Courriers, nil
	case FieldPorteAPorte:
		return &g.PorteAPorte, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownField, field)
}

// ParseField accepts a field name in any case, with "porte-a-porte" as an
// alias of porteAPorte.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandats":
		return FieldMandats, nil
	case "courriers":
		return FieldCourriers, nil
	case "porteaporte", "porte-a-porte", "porte_a_porte":
		return FieldPorteAPorte, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownField, s)
}
