package ideas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyContent = errors.New("ideas: content is required")
	ErrNotFound     = errors.New("ideas: not found")
)

// Idea is one note in the idea box.
type Idea struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Add appends a new idea. The id is derived from now in milliseconds and
// bumped until unique.
func Add(list []Idea, content string, now time.Time) ([]Idea, Idea, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, Idea{}, ErrEmptyContent
	}

	used := make(map[string]struct{}, len(list))
	for _, it := range list {
		used[it.ID] = struct{}{}
	}
	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for {
		if _, taken := used[id]; !taken {
			break
		}
		ms++
		id = strconv.FormatInt(ms, 10)
	}

	idea := Idea{ID: id, Content: content, CreatedAt: now}
	next := make([]Idea, 0, len(list)+1)
	next = append(next, list...)
	next = append(next, idea)
	return next, idea, nil
}

// Delete removes the idea with the given id.
func Delete(list []Idea, id string) ([]Idea, error) {
	next := make([]Idea, 0, len(list))
	found := false
	for _, it := range list {
		if it.ID == id {
			found = true
			continue
		}
		next = append(next, it)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return next, nil
}
