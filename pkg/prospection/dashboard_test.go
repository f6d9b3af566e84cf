package prospection

import (
	"errors"
	"testing"
	"time"
)

func TestStartMonthIsIdempotent(t *testing.T) {
	log, changed := StartMonth(nil, "", testNow)
	if !changed || len(log) != 1 {
		t.Fatalf("first start should add a sentinel, got %v", log)
	}
	if !log[0].IsSentinel() || log[0].Mois != "Janvier 2024" {
		t.Fatalf("unexpected sentinel %+v", log[0])
	}

	log, changed = StartMonth(log, "Janvier 2024", testNow.Add(time.Minute))
	if changed {
		t.Fatal("second start must not change the log")
	}

	sentinels := 0
	for _, e := range log {
		if e.IsSentinel() && e.Mois == "Janvier 2024" {
			sentinels++
		}
	}
	if sentinels != 1 {
		t.Fatalf("expected exactly one sentinel, got %d", sentinels)
	}
}

func TestStartMonthLeavesOtherMonths(t *testing.T) {
	log := []Entry{sentinel(1, "Décembre 2023"), entry(2, "Rue A", Boitage, "Décembre 2023")}
	next, changed := StartMonth(log, "Janvier 2024", testNow)
	if !changed || len(next) != 3 {
		t.Fatalf("expected a new sentinel at the head, got %v", next)
	}
	if next[1] != log[0] || next[2] != log[1] {
		t.Fatalf("existing entries must be preserved in order: %v", next)
	}
}

func TestDeleteItem(t *testing.T) {
	log := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024"), entry(2, "Rue B", Boitage, "Janvier 2024")}

	next, err := DeleteItem(log, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 1 || next[0].ID != 1 {
		t.Fatalf("unexpected log %v", next)
	}

	if _, err := DeleteItem(log, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMonthKeepsSentinel(t *testing.T) {
	log := []Entry{
		sentinel(1, "Janvier 2024"),
		entry(2, "Rue A", Boitage, " Janvier 2024 "),
		entry(3, "Rue B", Courrier, "Janvier 2024"),
		entry(4, "Rue C", Courrier, "Février 2024"),
	}

	next, removed := DeleteMonth(log, "Janvier 2024")
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	if len(next) != 2 || !next[0].IsSentinel() || next[1].ID != 4 {
		t.Fatalf("unexpected log %v", next)
	}

	groups := Group(next)
	if len(groups) != 2 || groups[0].Label != "Janvier 2024" || !groups[0].Empty {
		t.Fatalf("January must stay visible and empty: %+v", groups)
	}
}

func TestDeleteMonthIsExactMatch(t *testing.T) {
	log := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024"), entry(2, "Rue B", Boitage, "Janvier 2025")}
	next, removed := DeleteMonth(log, "Janvier 2024")
	if removed != 1 || len(next) != 1 || next[0].ID != 2 {
		t.Fatalf("unexpected result %v (%d removed)", next, removed)
	}
}

func TestArchiveAndReset(t *testing.T) {
	log := []Entry{entry(1, "Rue A", Boitage, "Janvier 2024"), entry(2, "Rue B", Courrier, "Janvier 2024"), sentinel(3, "Janvier 2024")}
	older := []Archive{{ArchivedAt: testNow.Add(-24 * time.Hour), Data: []Entry{entry(9, "Old", Boitage, "Décembre 2023")}}}

	invoked := testNow
	active, archives := ArchiveAndReset(log, older, invoked)

	if len(active) != 0 {
		t.Fatalf("active log must be empty, got %v", active)
	}
	if len(archives) != 2 {
		t.Fatalf("expected exactly one new archive, got %d total", len(archives))
	}
	if len(archives[0].Data) != len(log) {
		t.Fatalf("archive holds %d entries, want %d", len(archives[0].Data), len(log))
	}
	if archives[0].ArchivedAt.Before(invoked) {
		t.Fatalf("archivedAt %v is before invocation %v", archives[0].ArchivedAt, invoked)
	}
	if archives[1].ArchivedAt != older[0].ArchivedAt {
		t.Fatal("older archives must follow the new one")
	}

	log[0].Zone = "mutated"
	if archives[0].Data[0].Zone != "Rue A" {
		t.Fatal("archive must be a snapshot, not an alias of the live log")
	}
}

func TestDeleteArchive(t *testing.T) {
	archives := []Archive{{ArchivedAt: testNow}, {ArchivedAt: testNow.Add(-time.Hour)}, {ArchivedAt: testNow.Add(-2 * time.Hour)}}

	next, err := DeleteArchive(archives, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 2 || next[0].ArchivedAt != archives[0].ArchivedAt || next[1].ArchivedAt != archives[2].ArchivedAt {
		t.Fatalf("unexpected archives %v", next)
	}
	if len(archives) != 3 {
		t.Fatal("input must not be modified")
	}

	for _, idx := range []int{-1, 3} {
		if _, err := DeleteArchive(archives, idx); !errors.Is(err, ErrNotFound) {
			t.Fatalf("index %d: expected ErrNotFound, got %v", idx, err)
		}
	}
}
