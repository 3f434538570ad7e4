package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/railzwaylabs/supportdesk/internal/bookingfee/domain"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
}

// Policy holds the fee table behind an atomic pointer so a config reload never
// races a booking in flight.
type Policy struct {
	log      *zap.Logger
	settings atomic.Pointer[domain.Settings]
}

func New(p Params) (*Policy, error) {
	policy := &Policy{log: p.Log.Named("bookingfee.policy")}
	if err := policy.Replace(FromConfig(p.Config.Booking)); err != nil {
		return nil, err
	}
	return policy, nil
}

func FromConfig(cfg config.BookingConfig) domain.Settings {
	return domain.Settings{SameDayFee: cfg.SameDayFee, FutureDayFee: cfg.FutureDayFee}
}

func (p *Policy) Settings(context.Context) domain.Settings {
	return *p.settings.Load()
}

func (p *Policy) Fee(ctx context.Context, timeline domain.Timeline) (domain.Fee, error) {
	normalized := domain.Timeline(strings.ToLower(strings.TrimSpace(string(timeline))))
	if normalized == "" {
		return domain.Fee{}, domain.ErrInvalidTimeline
	}

	settings := p.Settings(ctx)
	fee := domain.Fee{Timeline: normalized, Amount: settings.FutureDayFee}
	if normalized.SameDay() {
		fee.Amount = settings.SameDayFee
		fee.SameDay = true
	}
	return fee, nil
}

func (p *Policy) Replace(settings domain.Settings) error {
	if settings.SameDayFee.IsNegative() {
		return apperror.Validation("same_day_fee", "must not be negative")
	}
	if settings.FutureDayFee.IsNegative() {
		return apperror.Validation("future_day_fee", "must not be negative")
	}
	p.settings.Store(&settings)
	p.log.Info("booking fees updated",
		zap.String("same_day_fee", settings.SameDayFee.StringFixed(2)),
		zap.String("future_day_fee", settings.FutureDayFee.StringFixed(2)),
	)
	return nil
}
