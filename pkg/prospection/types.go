package prospection

import (
	"errors"
	"strings"
	"time"
)

// ActionType is the kind of prospecting action an entry records.
type ActionType string

const (
	Boitage     ActionType = "boitage"
	PorteAPorte ActionType = "porte_a_porte"
	Courrier    ActionType = "courrier"
)

// ActionTypes lists the three buckets in display order.
var ActionTypes = []ActionType{Boitage, PorteAPorte, Courrier}

// SentinelZone marks an entry that only exists to keep an empty month visible.
const SentinelZone = "SYSTEM_INIT_MONTH"

// ColdAfter is the age past which a zone is flagged as cold.
const ColdAfter = 120 * 24 * time.Hour

var ErrNotFound = errors.New("prospection: not found")

// Entry is one logged prospecting action.
type Entry struct {
	ID   int64      `json:"id"`
	Zone string     `json:"zone"`
	Type ActionType `json:"type"`
	// Date is an ISO calendar date (YYYY-MM-DD).
	Date string `json:"date"`
	// Mois is the display month label, e.g. "Janvier 2024". It is the grouping
	// key and is never re-derived from Date.
	Mois string `json:"mois"`
}

// IsSentinel reports whether e is a month placeholder.
func (e Entry) IsSentinel() bool {
	return e.Zone == SentinelZone
}

// IsCold reports whether the entry's date is more than ColdAfter before now.
// Unparseable dates are never cold.
func (e Entry) IsCold(now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, e.Date, now.Location())
	if err != nil {
		return false
	}
	return now.Sub(d) > ColdAfter
}

// Archive is an immutable snapshot of a finished campaign.
type Archive struct {
	ArchivedAt time.Time `json:"archivedAt"`
	Data       []Entry   `json:"data"`
}

// ParseActionType maps loose spellings onto the three action types.
func ParseActionType(s string) (ActionType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("à", "a", "-", "_", " ", "_").Replace(norm)
	switch norm {
	case "boitage", "boîtage":
		return Boitage, true
	case "porte_a_porte", "pap":
		return PorteAPorte, true
	case "courrier", "courriers":
		return Courrier, true
	}
	return "", false
}
