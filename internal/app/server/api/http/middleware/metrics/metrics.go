package metrics

import (
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"passvault/internal/app/server/metrics"
)

// Middleware records request count and latency per route pattern.
func Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		path := ctx.URL().Path
		if op := ctx.Operation(); op != nil {
			path = op.Path
		}
		status := ctx.Status()
		if status == 0 {
			status = 200
		}

		metrics.HTTPRequestsTotal.WithLabelValues(ctx.Method(), path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(ctx.Method(), path).Observe(time.Since(start).Seconds())
	}
}
