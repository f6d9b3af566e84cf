package app

import (
	"context"
	"time"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// WatchMonth checks the monthly goals every interval until ctx is done, so a
// long-running server resets and saves them soon after the month changes
// instead of on the next request. log may be nil.
func (c *Controller) WatchMonth(ctx context.Context, interval time.Duration, log Logger) {
	if log == nil {
		log = nopLogger{}
	}
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	month := c.Snapshot().Goals.Month
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g, err := c.Goals(ctx)
			if err != nil {
				log.Warnf("Monthly goals check failed: %v", err)
				continue
			}
			if g.Month != month {
				log.Infof("New month %s: goals reset", g.Month)
				month = g.Month
			}
		}
	}
}
