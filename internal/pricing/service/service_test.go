package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/railzwaylabs/supportdesk/internal/catalog"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	"github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, at time.Time) domain.Service {
	t.Helper()

	cat, err := catalog.New(catalog.Defaults())
	require.NoError(t, err)

	return New(Params{
		Log:     zap.NewNop(),
		Clock:   clock.Fixed(at),
		Catalog: cat,
		Config:  config.Config{Pricing: config.PricingConfig{Timezone: "UTC"}},
		Metrics: observability.NewMetrics(),
	})
}

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }

func TestQuoteFromClock(t *testing.T) {
	// Saturday 2024-03-09 15:00 UTC: afternoon, weekend, business hours.
	svc := newTestService(t, time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC))

	q, err := svc.Quote(context.Background(), domain.QuoteRequest{
		ServiceID:         "remote-intermediate",
		Urgency:           domain.UrgencyUrgent,
		EstimatedDuration: intPtr(45),
		Distance:          float64Ptr(15),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TimeOfDayAfternoon, q.Factors.TimeOfDay)
	assert.Equal(t, domain.DayOfWeekWeekend, q.Factors.DayOfWeek)
	assert.Equal(t, domain.SupportLevelIntermediate, q.Factors.SupportLevel)
	assert.Equal(t, "166.50", q.Calculation.FinalPrice.StringFixed(2))
	assert.Equal(t, domain.DemandHigh, q.Insight.DemandLevel)
	assert.Equal(t, "111.50", q.Insight.PotentialSavings.StringFixed(2))
}

func TestQuoteSimulatedBucket(t *testing.T) {
	// Monday morning on the clock, midnight requested.
	svc := newTestService(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC))
	midnight := domain.TimeOfDayMidnight

	q, err := svc.Quote(context.Background(), domain.QuoteRequest{
		ServiceID: "phone-basic",
		TimeOfDay: &midnight,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TimeOfDayMidnight, q.Factors.TimeOfDay)
	assert.Equal(t, 15, q.Factors.EstimatedDuration)
	assert.Equal(t, 1.0, q.Factors.DemandMultiplier)
	assert.Equal(t, "37.50", q.Calculation.FinalPrice.StringFixed(2))
	assert.Equal(t, []string{"Base price: $25", "midnight surcharge: +$12.50"}, q.Calculation.Breakdown)
}

func TestQuoteUsesSimulatedContextTime(t *testing.T) {
	cat, err := catalog.New(catalog.Defaults())
	require.NoError(t, err)
	svc := New(Params{Log: zap.NewNop(), Clock: clock.SystemClock{}, Catalog: cat})

	ctx := clock.WithSimulatedTime(context.Background(), time.Date(2024, 3, 12, 19, 30, 0, 0, time.UTC))
	q, err := svc.Quote(ctx, domain.QuoteRequest{ServiceID: "phone-basic"})
	require.NoError(t, err)

	assert.Equal(t, domain.TimeOfDayEvening, q.Factors.TimeOfDay)
	assert.Equal(t, 1.3, q.Factors.TrafficFactor)
}

func TestQuoteErrors(t *testing.T) {
	svc := newTestService(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC))

	_, err := svc.Quote(context.Background(), domain.QuoteRequest{ServiceID: "unknown"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Quote(context.Background(), domain.QuoteRequest{
		ServiceID:         "phone-basic",
		EstimatedDuration: intPtr(-1),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Quote(context.Background(), domain.QuoteRequest{
		ServiceID: "phone-basic",
		Urgency:   domain.Urgency(42),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	for _, d := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		_, err = svc.Quote(context.Background(), domain.QuoteRequest{
			ServiceID: "phone-basic",
			Distance:  float64Ptr(d),
		})
		require.ErrorIs(t, err, apperror.ErrValidation)
		field, ok := apperror.FieldOf(err)
		assert.True(t, ok)
		assert.Equal(t, "distance", field)
	}

	// Zero is a valid distance.
	_, err = svc.Quote(context.Background(), domain.QuoteRequest{
		ServiceID: "phone-basic",
		Distance:  float64Ptr(0),
	})
	assert.NoError(t, err)
}

func TestStreamRecomputesOnEveryTick(t *testing.T) {
	svc := newTestService(t, time.Date(2024, 3, 11, 23, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick := make(chan time.Time)
	events, err := svc.Stream(ctx, domain.QuoteRequest{ServiceID: "phone-basic"}, tick)
	require.NoError(t, err)

	first := <-events
	require.NoError(t, first.Err)

	for i := 0; i < 3; i++ {
		tick <- time.Now()
		ev := <-events
		require.NoError(t, ev.Err)
		assert.Equal(t, first.Quote.Calculation.FinalPrice.String(), ev.Quote.Calculation.FinalPrice.String())
	}

	close(tick)
	_, open := <-events
	assert.False(t, open)
}

func TestStreamStopsOnCancel(t *testing.T) {
	svc := newTestService(t, time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())

	events, err := svc.Stream(ctx, domain.QuoteRequest{ServiceID: "phone-basic"}, make(chan time.Time))
	require.NoError(t, err)
	<-events

	cancel()
	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestStreamRejectsInvalidRequestUpFront(t *testing.T) {
	svc := newTestService(t, time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC))

	_, err := svc.Stream(context.Background(), domain.QuoteRequest{ServiceID: "nope"}, make(chan time.Time))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
