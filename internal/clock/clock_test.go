package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockHonoursSimulatedTime(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 15, 0, 0, time.UTC)
	ctx := WithSimulatedTime(context.Background(), at)

	assert.Equal(t, at, SystemClock{}.Now(ctx))
}

func TestSystemClockDefaultsToUTCNow(t *testing.T) {
	before := time.Now().UTC()
	now := SystemClock{}.Now(context.Background())

	assert.Equal(t, time.UTC, now.Location())
	assert.False(t, now.Before(before))
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, at, Fixed(at).Now(context.Background()))
}
