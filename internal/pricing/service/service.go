package service

import (
	"context"
	"math"
	"time"

	"github.com/railzwaylabs/supportdesk/internal/catalog"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	"github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/internal/pricing/factor"
	"github.com/railzwaylabs/supportdesk/internal/pricing/optimizer"
	"github.com/railzwaylabs/supportdesk/internal/pricing/quote"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Catalog *catalog.Catalog
	Config  config.Config
	Metrics *observability.Metrics `optional:"true"`
}

// Service reads the clock and the catalog, then hands off to the pure
// resolver, calculator and optimizer. It keeps no per-quote state.
type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	catalog *catalog.Catalog
	loc     *time.Location
	metrics *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("pricing.service"),
		clock:   p.Clock,
		catalog: p.Catalog,
		loc:     p.Config.Location(),
		metrics: p.Metrics,
	}
}

func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	ctx, span := otel.Tracer("pricing.service").Start(ctx, "pricing.Quote")
	defer span.End()
	span.SetAttributes(attribute.String("service_id", req.ServiceID))

	q, err := s.quote(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return q, nil
}

func (s *Service) quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	svc, err := s.catalog.Get(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !req.Urgency.Valid() {
		return nil, apperror.Validation("urgency", "unknown urgency")
	}
	if req.TimeOfDay != nil && !req.TimeOfDay.Valid() {
		return nil, apperror.Validation("time_of_day", "unknown bucket")
	}

	duration := svc.MinimumTime
	if req.EstimatedDuration != nil {
		duration = *req.EstimatedDuration
	}
	if duration < 0 {
		return nil, apperror.Validation("estimated_duration", "must not be negative")
	}
	if d := req.Distance; d != nil && (*d < 0 || math.IsNaN(*d) || math.IsInf(*d, 0)) {
		return nil, apperror.Validation("distance", "must be a non-negative number")
	}

	now := s.clock.Now(ctx).In(s.loc)
	fr := factor.Request{
		SupportLevel:      svc.SupportLevel,
		Urgency:           req.Urgency,
		EstimatedDuration: duration,
		Distance:          req.Distance,
		IsOutOfTown:       req.IsOutOfTown,
	}

	var factors domain.PricingFactors
	if req.TimeOfDay != nil {
		factors = factor.ResolveSimulated(*req.TimeOfDay, now.Weekday(), fr)
	} else {
		factors = factor.Resolve(now, fr)
	}

	calc, err := quote.Calculate(svc, factors)
	if err != nil {
		return nil, err
	}
	insight, err := optimizer.AnalyzeCalculation(svc, factors, calc)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordQuote(factors.TimeOfDay.String(), factors.Urgency.String())
	s.log.Debug("quote calculated",
		zap.String("service_id", svc.ID),
		zap.String("time_of_day", factors.TimeOfDay.String()),
		zap.String("urgency", factors.Urgency.String()),
		zap.String("final_price", calc.FinalPrice.StringFixed(2)),
	)

	return &domain.Quote{
		Service:     svc,
		Factors:     factors,
		Calculation: calc,
		Insight:     insight,
		QuotedAt:    now,
	}, nil
}

func (s *Service) Stream(ctx context.Context, req domain.QuoteRequest, tick <-chan time.Time) (<-chan domain.StreamEvent, error) {
	first, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.StreamEvent, 1)
	go func() {
		defer close(out)

		if !send(ctx, out, domain.StreamEvent{Quote: first}) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-tick:
				if !ok {
					return
				}
				q, err := s.Quote(ctx, req)
				if !send(ctx, out, domain.StreamEvent{Quote: q, Err: err}) {
					return
				}
			}
		}
	}()
	return out, nil
}

func send(ctx context.Context, out chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- ev:
		return true
	}
}
