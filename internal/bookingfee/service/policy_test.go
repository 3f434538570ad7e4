package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/railzwaylabs/supportdesk/internal/bookingfee/domain"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPolicy(t *testing.T, sameDay, futureDay string) *Policy {
	t.Helper()

	p, err := New(Params{
		Log: zap.NewNop(),
		Config: config.Config{Booking: config.BookingConfig{
			SameDayFee:   decimal.RequireFromString(sameDay),
			FutureDayFee: decimal.RequireFromString(futureDay),
		}},
	})
	require.NoError(t, err)
	return p
}

func TestFeeByTimeline(t *testing.T) {
	p := newPolicy(t, "20.00", "30.00")
	ctx := context.Background()

	cases := []struct {
		timeline domain.Timeline
		want     string
		sameDay  bool
	}{
		{domain.TimelineASAP, "20.00", true},
		{domain.TimelineToday, "20.00", true},
		{" ASAP ", "20.00", true},
		{domain.TimelineFlexible, "30.00", false},
		{domain.TimelineTomorrow, "30.00", false},
		{"next-month", "30.00", false},
	}
	for _, tc := range cases {
		t.Run(string(tc.timeline), func(t *testing.T) {
			fee, err := p.Fee(ctx, tc.timeline)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fee.Amount.StringFixed(2))
			assert.Equal(t, tc.sameDay, fee.SameDay)
		})
	}
}

func TestFeeRejectsEmptyTimeline(t *testing.T) {
	p := newPolicy(t, "20.00", "30.00")

	_, err := p.Fee(context.Background(), "  ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	field, ok := apperror.FieldOf(err)
	assert.True(t, ok)
	assert.Equal(t, "timeline", field)
}

func TestReplaceSwapsFees(t *testing.T) {
	p := newPolicy(t, "20.00", "30.00")
	ctx := context.Background()

	require.NoError(t, p.Replace(domain.Settings{
		SameDayFee:   decimal.RequireFromString("25"),
		FutureDayFee: decimal.RequireFromString("35.5"),
	}))

	fee, err := p.Fee(ctx, domain.TimelineASAP)
	require.NoError(t, err)
	assert.Equal(t, "25.00", fee.Amount.StringFixed(2))

	raw, err := json.Marshal(p.Settings(ctx))
	require.NoError(t, err)
	assert.JSONEq(t, `{"same_day_fee":"25.00","future_day_fee":"35.50"}`, string(raw))
}

func TestReplaceRejectsNegativeFees(t *testing.T) {
	p := newPolicy(t, "20.00", "30.00")

	err := p.Replace(domain.Settings{
		SameDayFee:   decimal.RequireFromString("-1"),
		FutureDayFee: decimal.RequireFromString("30"),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	fee, err := p.Fee(context.Background(), domain.TimelineToday)
	require.NoError(t, err)
	assert.Equal(t, "20.00", fee.Amount.StringFixed(2))
}

func TestConcurrentReadsDuringReplace(t *testing.T) {
	p := newPolicy(t, "20.00", "30.00")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					_ = p.Replace(domain.Settings{
						SameDayFee:   decimal.NewFromInt(int64(j)),
						FutureDayFee: decimal.NewFromInt(int64(j + 10)),
					})
					continue
				}
				fee, err := p.Fee(ctx, domain.TimelineFlexible)
				assert.NoError(t, err)
				assert.False(t, fee.Amount.IsNegative())
			}
		}(i)
	}
	wg.Wait()
}
