package session

import (
	"context"

	"github.com/dmitrijs2005/filedesk/internal/logging"
)

// bestEffort runs fn and logs its failure. The error never propagates.
func bestEffort(ctx context.Context, log logging.Logger, name string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		log.Warn(ctx, name+" failed", "err", err)
	}
}
