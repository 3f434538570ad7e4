package clock

import (
	"context"
	"time"
)

type key string

const simulatedTimeKey key = "simulated_time"

// WithSimulatedTime returns a context whose SystemClock reading is pinned to t.
func WithSimulatedTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, simulatedTimeKey, t)
}

// SimulatedFromContext returns the pinned time, if present.
func SimulatedFromContext(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(simulatedTimeKey).(time.Time)
	return t, ok
}
