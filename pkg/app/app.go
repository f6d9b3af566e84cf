package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/goals"
	"github.com/immodash/immodash/pkg/ideas"
	"github.com/immodash/immodash/pkg/prospection"
	"github.com/immodash/immodash/pkg/settings"
	"github.com/immodash/immodash/pkg/storage"
)

// ErrNotConfirmed is returned by destructive operations called without an
// explicit confirmation.
var ErrNotConfirmed = errors.New("app: destructive operation requires confirmation")

// Reporter sends one report request and returns the raw model text.
type Reporter interface {
	Request(ctx context.Context, kind ai.ReportKind, text string, att *ai.Attachment) (string, error)
}

// State is everything the dashboard renders.
type State struct {
	Prospection []prospection.Entry   `json:"prospection"`
	Archives    []prospection.Archive `json:"archives"`
	Ideas       []ideas.Idea          `json:"ideas"`
	Goals       goals.Goals           `json:"goals"`
	Theme       settings.Theme        `json:"theme"`
	HasPIN      bool                  `json:"hasPin"`

	pinDigest string
}

func (s State) clone() State {
	out := s
	out.Prospection = append([]prospection.Entry{}, s.Prospection...)
	out.Archives = append([]prospection.Archive{}, s.Archives...)
	out.Ideas = append([]ideas.Idea{}, s.Ideas...)
	return out
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the application state. Every mutation is computed on a copy,
// persisted, and only then made visible; subscribers are told afterwards, in
// commit order.
type Controller struct {
	mu        sync.Mutex
	store     storage.Store
	reporter  Reporter
	now       func() time.Time
	state     State

	subsMu   sync.Mutex
	subs     map[int]func(State)
	nextSub  int
	pending  []State
	draining bool
}

// New returns a controller with empty state. Call Load before use.
func New(store storage.Store, reporter Reporter, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		reporter: reporter,
		now:      time.Now,
		subs:     make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = defaultState(c.now())
	return c
}

func defaultState(now time.Time) State {
	return State{
		Prospection: []prospection.Entry{},
		Archives:    []prospection.Archive{},
		Ideas:       []ideas.Idea{},
		Goals:       goals.New(now),
		Theme:       settings.ThemeLight,
	}
}

// Load reads every key from the store. Missing keys keep their empty default;
// goals from a past month are reset and saved right away.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	now := c.now()
	st := defaultState(now)

	loads := []struct {
		key string
		dst any
	}{
		{storage.KeyProspection, &st.Prospection},
		{storage.KeyArchives, &st.Archives},
		{storage.KeyIdeas, &st.Ideas},
		{storage.KeyGoals, &st.Goals},
		{storage.KeyTheme, &st.Theme},
		{storage.KeyPIN, &st.pinDigest},
	}
	for _, l := range loads {
		if _, err := storage.Load(ctx, c.store, l.key, l.dst); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	// A stored JSON null decodes to a nil slice.
	if st.Prospection == nil {
		st.Prospection = []prospection.Entry{}
	}
	if st.Archives == nil {
		st.Archives = []prospection.Archive{}
	}
	if st.Ideas == nil {
		st.Ideas = []ideas.Idea{}
	}
	if _, err := settings.ParseTheme(string(st.Theme)); err != nil {
		st.Theme = settings.ThemeLight
	}
	st.HasPIN = st.pinDigest != ""

	if g, reset := goals.Rollover(st.Goals, now); reset {
		utils.Log.Infof("Monthly goals from %q reset for %s", st.Goals.Month, g.Month)
		st.Goals = g
		if err := storage.Save(ctx, c.store, storage.KeyGoals, g); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("persist goals reset: %w", err)
		}
	}

	c.state = st
	c.enqueue(st.clone())
	c.mu.Unlock()

	utils.Log.Debugf("[app] loaded %d prospecting entries, %d archives, %d ideas", len(st.Prospection), len(st.Archives), len(st.Ideas))
	c.flush()
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Now returns the controller's clock reading.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Subscribe registers fn to be called with the new state after every
// committed change. The returned function unregisters it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

// enqueue queues st for the subscribers. Callers hold c.mu, so the queue is
// in commit order.
func (c *Controller) enqueue(st State) {
	c.subsMu.Lock()
	c.pending = append(c.pending, st)
	c.subsMu.Unlock()
}

// flush delivers queued states one at a time. Only one goroutine drains; any
// other caller returns at once and its state is delivered by the drainer, so
// subscribers never see an older state after a newer one. A subscriber may
// itself commit a change: it is queued behind the current one.
func (c *Controller) flush() {
	c.subsMu.Lock()
	if c.draining {
		c.subsMu.Unlock()
		return
	}
	c.draining = true
	defer func() {
		c.draining = false
		c.subsMu.Unlock()
	}()

	for len(c.pending) > 0 {
		st := c.pending[0]
		c.pending[0] = State{}
		c.pending = c.pending[1:]
		fns := make([]func(State), 0, len(c.subs))
		for _, fn := range c.subs {
			fns = append(fns, fn)
		}

		c.subsMu.Unlock()
		func() {
			defer c.subsMu.Lock()
			for _, fn := range fns {
				fn(st.clone())
			}
		}()
	}
}

// update runs fn on a copy of the state. When fn names keys, those keys are
// written in one store call and the copy becomes the new state; a failed
// write leaves the state untouched.
func (c *Controller) update(ctx context.Context, fn func(cur State, now time.Time) (State, []string, error)) error {
	c.mu.Lock()
	next, keys, err := fn(c.state.clone(), c.now())
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if len(keys) == 0 {
		c.mu.Unlock()
		return nil
	}
	if err := c.persist(ctx, next, keys); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.enqueue(next.clone())
	c.mu.Unlock()

	c.flush()
	return nil
}

func (c *Controller) persist(ctx context.Context, st State, keys []string) error {
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		switch key {
		case storage.KeyProspection:
			values[key] = st.Prospection
		case storage.KeyArchives:
			values[key] = st.Archives
		case storage.KeyIdeas:
			values[key] = st.Ideas
		case storage.KeyGoals:
			values[key] = st.Goals
		case storage.KeyTheme:
			values[key] = st.Theme
		case storage.KeyPIN:
			values[key] = st.pinDigest
		default:
			return fmt.Errorf("%w: %s", storage.ErrUnknownKey, key)
		}
	}
	if err := storage.SaveMany(ctx, c.store, values); err != nil {
		utils.Log.Errorf("Could not persist %v: %v", keys, err)
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

func confirm(confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return nil
}
