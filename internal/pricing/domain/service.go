package domain

import (
	"context"
	"time"
)

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	// Stream recomputes the quote on every tick until ctx is done or tick is
	// closed. The returned channel is closed when streaming stops.
	Stream(ctx context.Context, req QuoteRequest, tick <-chan time.Time) (<-chan StreamEvent, error)
}

type QuoteRequest struct {
	ServiceID string  `json:"service_id"`
	Urgency   Urgency `json:"urgency"`
	// EstimatedDuration defaults to the service's minimum time when nil.
	EstimatedDuration *int     `json:"estimated_duration,omitempty"`
	Distance          *float64 `json:"distance,omitempty"`
	IsOutOfTown       bool     `json:"is_out_of_town"`
	// TimeOfDay pins a simulated bucket instead of reading the clock hour.
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
}

type StreamEvent struct {
	Quote *Quote
	Err   error
}
