package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/immodash/immodash/pkg/goals"
	"github.com/immodash/immodash/pkg/ideas"
	"github.com/immodash/immodash/pkg/settings"
	"github.com/immodash/immodash/pkg/storage"
)

var ErrInvalidEstimation = errors.New("app: estimation data must be a JSON object")

// AddIdea appends a note to the idea box.
func (c *Controller) AddIdea(ctx context.Context, content string) (ideas.Idea, error) {
	var added ideas.Idea
	err := c.update(ctx, func(cur State, now time.Time) (State, []string, error) {
		next, idea, err := ideas.Add(cur.Ideas, content, now)
		if err != nil {
			return cur, nil, err
		}
		added = idea
		cur.Ideas = next
		return cur, []string{storage.KeyIdeas}, nil
	})
	return added, err
}

// DeleteIdea removes a note by id.
func (c *Controller) DeleteIdea(ctx context.Context, id string) error {
	return c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		next, err := ideas.Delete(cur.Ideas, id)
		if err != nil {
			return cur, nil, err
		}
		cur.Ideas = next
		return cur, []string{storage.KeyIdeas}, nil
	})
}

// Goals returns the monthly goals, resetting them first when the month has
// changed since they were last written.
func (c *Controller) Goals(ctx context.Context) (goals.Goals, error) {
	var out goals.Goals
	err := c.update(ctx, func(cur State, now time.Time) (State, []string, error) {
		g, reset := goals.Rollover(cur.Goals, now)
		out = g
		if !reset {
			return cur, nil, nil
		}
		cur.Goals = g
		return cur, []string{storage.KeyGoals}, nil
	})
	return out, err
}

// SetGoal assigns one counter of the monthly goals.
func (c *Controller) SetGoal(ctx context.Context, field goals.Field, value int) (goals.Goals, error) {
	return c.editGoals(ctx, func(g goals.Goals) (goals.Goals, error) {
		return g.Set(field, value)
	})
}

// IncrementGoal adds delta to one counter, never going below zero.
func (c *Controller) IncrementGoal(ctx context.Context, field goals.Field, delta int) (goals.Goals, error) {
	return c.editGoals(ctx, func(g goals.Goals) (goals.Goals, error) {
		return g.Increment(field, delta)
	})
}

// ValidateBoitage sets the monthly flyer flag.
func (c *Controller) ValidateBoitage(ctx context.Context, validated bool) (goals.Goals, error) {
	return c.editGoals(ctx, func(g goals.Goals) (goals.Goals, error) {
		return g.WithBoitage(validated), nil
	})
}

// EditGoals applies edit to the current month's goals and saves the result in
// one commit. If edit fails nothing is saved.
func (c *Controller) EditGoals(ctx context.Context, edit func(goals.Goals) (goals.Goals, error)) (goals.Goals, error) {
	return c.editGoals(ctx, edit)
}

func (c *Controller) editGoals(ctx context.Context, edit func(goals.Goals) (goals.Goals, error)) (goals.Goals, error) {
	var out goals.Goals
	err := c.update(ctx, func(cur State, now time.Time) (State, []string, error) {
		g, _ := goals.Rollover(cur.Goals, now)
		g, err := edit(g)
		if err != nil {
			return cur, nil, err
		}
		out = g
		cur.Goals = g
		return cur, []string{storage.KeyGoals}, nil
	})
	return out, err
}

// SetTheme stores the display theme.
func (c *Controller) SetTheme(ctx context.Context, name string) (settings.Theme, error) {
	theme, err := settings.ParseTheme(name)
	if err != nil {
		return "", err
	}
	err = c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		if cur.Theme == theme {
			return cur, nil, nil
		}
		cur.Theme = theme
		return cur, []string{storage.KeyTheme}, nil
	})
	return theme, err
}

// SetPIN replaces the unlock PIN. When a PIN is already set, current must
// match it.
func (c *Controller) SetPIN(ctx context.Context, current, pin string) error {
	digest, err := settings.HashPIN(pin)
	if err != nil {
		return err
	}
	return c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		if cur.pinDigest != "" {
			if err := settings.VerifyPIN(cur.pinDigest, current); err != nil {
				return cur, nil, err
			}
		}
		cur.pinDigest = digest
		cur.HasPIN = true
		return cur, []string{storage.KeyPIN}, nil
	})
}

// ClearPIN removes the unlock PIN after checking current.
func (c *Controller) ClearPIN(ctx context.Context, current string) error {
	return c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		if cur.pinDigest == "" {
			return cur, nil, nil
		}
		if err := settings.VerifyPIN(cur.pinDigest, current); err != nil {
			return cur, nil, err
		}
		cur.pinDigest = ""
		cur.HasPIN = false
		return cur, []string{storage.KeyPIN}, nil
	})
}

// Unlock checks pin against the stored digest. Without a PIN every attempt
// succeeds.
func (c *Controller) Unlock(pin string) error {
	c.mu.Lock()
	digest := c.state.pinDigest
	c.mu.Unlock()

	if digest == "" {
		return nil
	}
	return settings.VerifyPIN(digest, pin)
}

// Estimation returns the stored estimation form as raw JSON, or an empty
// object.
func (c *Controller) Estimation(ctx context.Context) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, found, err := c.store.LoadRaw(ctx, storage.KeyEstimation)
	if err != nil {
		return nil, err
	}
	if !found {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(raw), nil
}

// SaveEstimation stores the estimation form as is. The content is opaque to
// the dashboard; only its shape is checked.
func (c *Controller) SaveEstimation(ctx context.Context, raw json.RawMessage) error {
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return ErrInvalidEstimation
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.SaveRaw(ctx, storage.KeyEstimation, raw); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
