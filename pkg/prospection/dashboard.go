package prospection

import (
	"fmt"
	"strings"
	"time"
)

// StartMonth adds a sentinel for label unless one already exists. The second
// return value reports whether the log changed.
func StartMonth(entries []Entry, label string, now time.Time) ([]Entry, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = MonthLabel(now)
	}
	for _, e := range entries {
		if e.IsSentinel() && sameLabel(e.Mois, label) {
			return clone(entries), false
		}
	}

	sentinel := Entry{
		ID:   nextID(entries, now),
		Zone: SentinelZone,
		Type: Boitage,
		Date: Today(now),
		Mois: label,
	}
	next := make([]Entry, 0, len(entries)+1)
	next = append(next, sentinel)
	next = append(next, entries...)
	return next, true
}

// DeleteItem removes the entry with the given id.
func DeleteItem(entries []Entry, id int64) ([]Entry, error) {
	next := make([]Entry, 0, len(entries))
	found := false
	for _, e := range entries {
		if e.ID == id && !found {
			found = true
			continue
		}
		next = append(next, e)
	}
	if !found {
		return nil, fmt.Errorf("%w: entry %d", ErrNotFound, id)
	}
	return next, nil
}

// DeleteMonth removes every non-sentinel entry whose trimmed label equals
// label. The sentinel stays so the month remains visible, empty.
func DeleteMonth(entries []Entry, label string) ([]Entry, int) {
	next := make([]Entry, 0, len(entries))
	removed := 0
	for _, e := range entries {
		if !e.IsSentinel() && sameLabel(e.Mois, label) {
			removed++
			continue
		}
		next = append(next, e)
	}
	return next, removed
}

// ArchiveAndReset snapshots entries into a new archive placed at the head of
// archives and returns an empty log. Both results are meant to be committed
// together.
func ArchiveAndReset(entries []Entry, archives []Archive, now time.Time) ([]Entry, []Archive) {
	snapshot := Archive{ArchivedAt: now, Data: clone(entries)}
	nextArchives := make([]Archive, 0, len(archives)+1)
	nextArchives = append(nextArchives, snapshot)
	nextArchives = append(nextArchives, archives...)
	return []Entry{}, nextArchives
}

// DeleteArchive removes the archive at index.
func DeleteArchive(archives []Archive, index int) ([]Archive, error) {
	if index < 0 || index >= len(archives) {
		return nil, fmt.Errorf("%w: archive index %d", ErrNotFound, index)
	}
	next := make([]Archive, 0, len(archives)-1)
	next = append(next, archives[:index]...)
	next = append(next, archives[index+1:]...)
	return next, nil
}
