package reporting

import (
	"context"

	"github.com/dmitrijs2005/wirescope/internal/logging"
)

// LogReporter records reported errors in the local log only. Used when no
// bucket is configured.
type LogReporter struct {
	log logging.Logger
}

func NewLogReporter(log logging.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(ctx context.Context, err error) {
	r.log.Warn(ctx, "entitlement failure", "error", err)
}
