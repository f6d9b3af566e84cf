package app

import (
	"context"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
)

// Generate requests a report and decodes it into a JSON object. Reports are
// not persisted.
func (c *Controller) Generate(ctx context.Context, kind ai.ReportKind, text string, att *ai.Attachment) (map[string]any, error) {
	raw, err := c.reporter.Request(ctx, kind, text, att)
	if err != nil {
		return nil, err
	}
	report, err := ai.DecodeObject(raw)
	if err != nil {
		utils.Log.Warnf("Unreadable %s report: %v", kind, err)
		return nil, err
	}
	return report, nil
}
