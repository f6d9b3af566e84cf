package prospection

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyZone    = errors.New("prospection: zone is required")
	ErrEmptyTarget  = errors.New("prospection: delete target is required")
	ErrInvalidScope = errors.New("prospection: delete scope must be single or month")
)

// Result describes the outcome of applying one intent.
type Result struct {
	Kind    IntentKind
	Entries []Entry
	// Changed is false for informational intents.
	Changed bool
	Added   *Entry
	Removed int
	Message string
}

// Apply computes the log that results from intent. entries is never modified;
// on error the caller keeps its previous log.
func Apply(entries []Entry, intent Intent, now time.Time) (Result, error) {
	res := Result{Kind: intent.Kind, Message: intent.Message}

	switch intent.Kind {
	case IntentLog:
		added, err := newEntry(entries, intent.Data, now)
		if err != nil {
			return Result{}, err
		}
		next := make([]Entry, 0, len(entries)+1)
		next = append(next, added)
		next = append(next, entries...)
		res.Entries = next
		res.Added = &added
		res.Changed = true

	case IntentDelete:
		target := strings.ToLower(strings.TrimSpace(intent.Target))
		if target == "" {
			return Result{}, ErrEmptyTarget
		}
		var field func(Entry) string
		switch intent.Scope {
		case ScopeMonth:
			field = func(e Entry) string { return e.Mois }
		case ScopeSingle:
			field = func(e Entry) string { return e.Zone }
		default:
			return Result{}, fmt.Errorf("%w: %q", ErrInvalidScope, intent.Scope)
		}
		// Substring containment: "lille" also matches "Villeneuve-lez-Lille".
		next := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if !e.IsSentinel() && strings.Contains(strings.ToLower(field(e)), target) {
				res.Removed++
				continue
			}
			next = append(next, e)
		}
		res.Entries = next
		res.Changed = res.Removed > 0

	case IntentReset:
		res.Entries = []Entry{}
		res.Removed = len(entries)
		res.Changed = true

	default:
		res.Entries = clone(entries)
	}

	return res, nil
}

func newEntry(entries []Entry, data LogData, now time.Time) (Entry, error) {
	zone := strings.TrimSpace(data.Zone)
	if zone == "" {
		return Entry{}, ErrEmptyZone
	}

	typ, ok := ParseActionType(data.Type)
	if !ok {
		typ = Boitage
	}

	date := strings.TrimSpace(data.Date)
	if date == "" {
		date = Today(now)
	}

	mois := strings.TrimSpace(data.Mois)
	if mois == "" {
		mois = MonthLabel(now)
	}

	return Entry{
		ID:   nextID(entries, now),
		Zone: zone,
		Type: typ,
		Date: date,
		Mois: CapitalizeFirst(mois),
	}, nil
}

// nextID returns now in milliseconds, bumped past any ID already in use.
func nextID(entries []Entry, now time.Time) int64 {
	used := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		used[e.ID] = struct{}{}
	}
	id := now.UnixMilli()
	for {
		if _, taken := used[id]; !taken {
			return id
		}
		id++
	}
}

func clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
