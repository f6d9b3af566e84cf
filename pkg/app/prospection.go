package app

import (
	"context"
	"strings"
	"time"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/prospection"
	"github.com/immodash/immodash/pkg/storage"
)

// Prospect sends a free-text message through the model and applies the
// returned intent to the log.
func (c *Controller) Prospect(ctx context.Context, text string) (prospection.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return prospection.Result{}, ai.ErrEmptyInput
	}

	raw, err := c.reporter.Request(ctx, ai.KindProspection, text, nil)
	if err != nil {
		return prospection.Result{}, err
	}
	doc, err := ai.ExtractJSON(raw)
	if err != nil {
		return prospection.Result{}, err
	}
	intent, err := prospection.ParseIntent(doc)
	if err != nil {
		return prospection.Result{}, &ai.DecodeError{Err: err, Input: utils.Truncate(raw, 200)}
	}

	utils.Log.Debugf("[app] model intent %q for %q", intent.Kind, utils.Truncate(text, 60))
	return c.ApplyIntent(ctx, intent)
}

// ApplyIntent applies an already decoded intent.
func (c *Controller) ApplyIntent(ctx context.Context, intent prospection.Intent) (prospection.Result, error) {
	var res prospection.Result
	err := c.update(ctx, func(cur State, now time.Time) (State, []string, error) {
		r, err := prospection.Apply(cur.Prospection, intent, now)
		if err != nil {
			return cur, nil, err
		}
		res = r
		if !r.Changed {
			return cur, nil, nil
		}
		cur.Prospection = r.Entries
		return cur, []string{storage.KeyProspection}, nil
	})
	if err != nil {
		return prospection.Result{}, err
	}
	return res, nil
}

// StartMonth opens the current month in the dashboard.
func (c *Controller) StartMonth(ctx context.Context) (bool, error) {
	var changed bool
	err := c.update(ctx, func(cur State, now time.Time) (State, []string, error) {
		next, ok := prospection.StartMonth(cur.Prospection, prospection.MonthLabel(now), now)
		if !ok {
			return cur, nil, nil
		}
		changed = true
		cur.Prospection = next
		return cur, []string{storage.KeyProspection}, nil
	})
	return changed, err
}

// DeleteItem removes one entry by id.
func (c *Controller) DeleteItem(ctx context.Context, id int64, confirmed bool) error {
	if err := confirm(confirmed); err != nil {
		return err
	}
	return c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		next, err := prospection.DeleteItem(cur.Prospection, id)
		if err != nil {
			return cur, nil, err
		}
		cur.Prospection = next
		return cur, []string{storage.KeyProspection}, nil
	})
}

// DeleteMonth removes a month's entries, keeping its sentinel.
func (c *Controller) DeleteMonth(ctx context.Context, label string, confirmed bool) (int, error) {
	if err := confirm(confirmed); err != nil {
		return 0, err
	}
	var removed int
	err := c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		next, n := prospection.DeleteMonth(cur.Prospection, label)
		if n == 0 {
			return cur, nil, nil
		}
		removed = n
		cur.Prospection = next
		return cur, []string{storage.KeyProspection}, nil
	})
	return removed, err
}

// ResetCampaign clears the active log. Archives are not touched.
func (c *Controller) ResetCampaign(ctx context.Context, confirmed bool) error {
	if err := confirm(confirmed); err != nil {
		return err
	}
	return c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		cur.Prospection = []prospection.Entry{}
		return cur, []string{storage.KeyProspection}, nil
	})
}

// ArchiveAndReset snapshots the active log into a new archive and clears it.
// Both keys are written together, so the store never holds one without the
// other.
func (c *Controller) ArchiveAndReset(ctx context.Context, confirmed bool) (prospection.Archive, error) {
	if err := confirm(confirmed); err != nil {
		return prospection.Archive{}, err
	}
	var archive prospection.Archive
	err := c.update(ctx, func(cur State, now time.Time) (State, []string, error) {
		active, archives := prospection.ArchiveAndReset(cur.Prospection, cur.Archives, now)
		archive = archives[0]
		cur.Prospection = active
		cur.Archives = archives
		return cur, []string{storage.KeyProspection, storage.KeyArchives}, nil
	})
	if err != nil {
		return prospection.Archive{}, err
	}
	utils.Log.Infof("Archived campaign with %d entries", len(archive.Data))
	return archive, nil
}

// DeleteArchive removes an archive by index.
func (c *Controller) DeleteArchive(ctx context.Context, index int, confirmed bool) error {
	if err := confirm(confirmed); err != nil {
		return err
	}
	return c.update(ctx, func(cur State, _ time.Time) (State, []string, error) {
		next, err := prospection.DeleteArchive(cur.Archives, index)
		if err != nil {
			return cur, nil, err
		}
		cur.Archives = next
		return cur, []string{storage.KeyArchives}, nil
	})
}
