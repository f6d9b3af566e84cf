package ideas

import (
	"errors"
	"testing"
	"time"
)

func TestAddAndDelete(t *testing.T) {
	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	list, first, err := Add(nil, "  Relancer le notaire  ", now)
	if err != nil {
		t.Fatal(err)
	}
	if first.Content != "Relancer le notaire" || first.ID == "" || !first.CreatedAt.Equal(now) {
		t.Fatalf("unexpected idea %+v", first)
	}

	list, second, err := Add(list, "Flyers quartier gare", now)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID == first.ID {
		t.Fatal("ids must be unique even when created in the same millisecond")
	}
	if len(list) != 2 || list[1].ID != second.ID {
		t.Fatalf("ideas are appended: %v", list)
	}

	list, err = Delete(list, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("unexpected list %v", list)
	}

	if _, err := Delete(list, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddRejectsBlank(t *testing.T) {
	if _, _, err := Add(nil, " \n ", time.Now()); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}
