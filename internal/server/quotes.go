package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/railzwaylabs/supportdesk/internal/clock"
	"github.com/railzwaylabs/supportdesk/internal/pricing/document"
	pricingdomain "github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
)

const (
	defaultStreamInterval = time.Second
	minStreamInterval     = 100 * time.Millisecond
)

type quoteRequest struct {
	ServiceID         string   `json:"service_id" form:"service_id"`
	Urgency           string   `json:"urgency" form:"urgency"`
	EstimatedDuration *int     `json:"estimated_duration" form:"estimated_duration"`
	Distance          *float64 `json:"distance" form:"distance"`
	IsOutOfTown       bool     `json:"is_out_of_town" form:"is_out_of_town"`
	// TimeOfDay pins a bucket; SimulatedAt replaces the clock reading.
	TimeOfDay   string     `json:"time_of_day" form:"time_of_day"`
	SimulatedAt *time.Time `json:"simulated_at" form:"simulated_at"`

	// Live stream only.
	Interval string `json:"-" form:"interval"`
	Limit    int    `json:"-" form:"limit"`
}

func (r quoteRequest) toDomain() (pricingdomain.QuoteRequest, error) {
	out := pricingdomain.QuoteRequest{
		ServiceID:         strings.TrimSpace(r.ServiceID),
		Urgency:           pricingdomain.UrgencyLow,
		EstimatedDuration: r.EstimatedDuration,
		Distance:          r.Distance,
		IsOutOfTown:       r.IsOutOfTown,
	}

	if strings.TrimSpace(r.Urgency) != "" {
		urgency, err := pricingdomain.ParseUrgency(r.Urgency)
		if err != nil {
			return pricingdomain.QuoteRequest{}, err
		}
		out.Urgency = urgency
	}

	if strings.TrimSpace(r.TimeOfDay) != "" {
		bucket, err := pricingdomain.ParseTimeOfDay(r.TimeOfDay)
		if err != nil {
			return pricingdomain.QuoteRequest{}, err
		}
		out.TimeOfDay = &bucket
	}
	return out, nil
}

func (r quoteRequest) context(ctx context.Context) context.Context {
	if r.SimulatedAt != nil {
		return clock.WithSimulatedTime(ctx, *r.SimulatedAt)
	}
	return ctx
}

func (r quoteRequest) interval() (time.Duration, error) {
	if strings.TrimSpace(r.Interval) == "" {
		return defaultStreamInterval, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(r.Interval))
	if err != nil || d < minStreamInterval {
		return 0, apperror.Validation("interval", "must be a duration of at least 100ms")
	}
	return d, nil
}

// @Summary      List Services
// @Description  Catalog entries that can be quoted
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  ListResponse
// @Router       /services [get]
func (s *Server) ListServices(c *gin.Context) {
	respondList(c, s.catalog.List())
}

// @Summary      Create Quote
// @Description  Price a service for the current or a simulated time
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body quoteRequest true "Quote Request"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /quotes [post]
func (s *Server) CreateQuote(c *gin.Context) {
	q, ok := s.bindAndQuote(c)
	if !ok {
		return
	}
	respondData(c, q)
}

// @Summary      Quote Document
// @Description  Render a quote as a PDF
// @Tags         quotes
// @Accept       json
// @Produce      application/pdf
// @Param        request body quoteRequest true "Quote Request"
// @Success      200  {file}  binary
// @Router       /quotes/document [post]
func (s *Server) QuoteDocument(c *gin.Context) {
	q, ok := s.bindAndQuote(c)
	if !ok {
		return
	}

	pdf, err := document.Render(q)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\"quote-"+q.Service.ID+".pdf\"")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) bindAndQuote(c *gin.Context) (*pricingdomain.Quote, bool) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return nil, false
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}

	q, err := s.pricingSvc.Quote(req.context(c.Request.Context()), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return q, true
}

// @Summary      Live Quotes
// @Description  Server-sent events with a fresh quote every interval
// @Tags         quotes
// @Produce      text/event-stream
// @Param        service_id  query  string  true   "Service ID"
// @Param        urgency     query  string  false  "low, medium, high or urgent"
// @Param        interval    query  string  false  "Tick interval, e.g. 5s"
// @Param        limit       query  int     false  "Stop after this many events"
// @Router       /quotes/live [get]
func (s *Server) StreamQuotes(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	interval, err := req.interval()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(req.context(c.Request.Context()))
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events, err := s.pricingSvc.Stream(ctx, domainReq, ticker.C)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	sent := 0
	for ev := range events {
		if ev.Err != nil {
			c.Render(-1, sse.Event{Event: "error", Data: gin.H{"message": ev.Err.Error()}})
		} else {
			c.Render(-1, sse.Event{Id: ulid.Make().String(), Event: "quote", Data: ev.Quote})
		}
		c.Writer.Flush()

		sent++
		if req.Limit > 0 && sent >= req.Limit {
			return
		}
	}
}
