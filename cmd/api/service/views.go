package service

import (
	"context"

	"github.com/sucupira/processmap/common/cache"
	"github.com/sucupira/processmap/common/logger"
)

// viewPrefixes are the cached read models every structural mutation must
// invalidate.
var viewPrefixes = []string{"hierarchy", "dashboard", "suggest"}

func invalidateViews(ctx context.Context, c cache.Cache, log *logger.Logger) {
	if c == nil {
		return
	}
	for _, prefix := range viewPrefixes {
		if err := c.DeleteByPrefix(ctx, prefix); err != nil {
			log.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}
