package prospection

import (
	"sort"
	"strings"
	"time"
)

// MonthGroup is one month section of the dashboard.
type MonthGroup struct {
	Label   string                 `json:"label"`
	Buckets map[ActionType][]Entry `json:"buckets"`
	// Empty is true when the month only holds its sentinel.
	Empty bool `json:"empty"`
}

// Count returns the number of real entries in the month.
func (g MonthGroup) Count() int {
	n := 0
	for _, b := range g.Buckets {
		n += len(b)
	}
	return n
}

// Group splits entries by month label, in first-seen order, then by type.
// Sentinels open a month but are not placed in any bucket.
func Group(entries []Entry) []MonthGroup {
	var groups []MonthGroup
	index := make(map[string]int)

	for _, e := range entries {
		label := strings.TrimSpace(e.Mois)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, MonthGroup{
				Label:   label,
				Buckets: make(map[ActionType][]Entry, len(ActionTypes)),
			})
		}
		if e.IsSentinel() {
			continue
		}
		typ := bucketOf(e)
		groups[i].Buckets[typ] = append(groups[i].Buckets[typ], e)
	}

	for i := range groups {
		groups[i].Empty = groups[i].Count() == 0
	}
	return groups
}

// Counts returns the number of real entries per action type.
func Counts(entries []Entry) map[ActionType]int {
	out := make(map[ActionType]int, len(ActionTypes))
	for _, t := range ActionTypes {
		out[t] = 0
	}
	for _, e := range entries {
		if e.IsSentinel() {
			continue
		}
		out[bucketOf(e)]++
	}
	return out
}

// bucketOf files entries with an unexpected type under boitage, the default.
func bucketOf(e Entry) ActionType {
	if typ, ok := ParseActionType(string(e.Type)); ok {
		return typ
	}
	return Boitage
}

// Search returns the real entries whose zone contains query, case-insensitively.
func Search(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Entry
	for _, e := range entries {
		if e.IsSentinel() {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(e.Zone), q) {
			out = append(out, e)
		}
	}
	return out
}

// ColdZones returns the real entries older than ColdAfter, oldest first.
func ColdZones(entries []Entry, now time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.IsSentinel() && e.IsCold(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
