// Package server exposes the rule repositories, the quote engine and the
// booking fee policy over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"github.com/railzwaylabs/supportdesk/internal/authorization"
	bookingdomain "github.com/railzwaylabs/supportdesk/internal/bookingfee/domain"
	"github.com/railzwaylabs/supportdesk/internal/catalog"
	commissiondomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/internal/observability"
	pricerule "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	pricingdomain "github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(registerLifecycle),
)

type Params struct {
	fx.In

	Log            *zap.Logger
	Metrics        *observability.Metrics `optional:"true"`
	Tracer         trace.TracerProvider   `optional:"true"`
	Authorizer     *authorization.Authorizer
	Catalog        *catalog.Catalog
	PricingSvc     pricingdomain.Service
	BookingPolicy  bookingdomain.Policy
	PriceRuleSvc   pricerule.Service
	CommissionSvc  commissiondomain.Service
	AuditExportSvc auditdomain.ExportService `optional:"true"`
}

type Server struct {
	log            *zap.Logger
	metrics        *observability.Metrics
	tracer         trace.Tracer
	authorizer     *authorization.Authorizer
	catalog        *catalog.Catalog
	pricingSvc     pricingdomain.Service
	bookingPolicy  bookingdomain.Policy
	priceRuleSvc   pricerule.Service
	commissionSvc  commissiondomain.Service
	auditExportSvc auditdomain.ExportService

	engine *gin.Engine
}

func NewServer(p Params) *Server {
	tp := p.Tracer
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	s := &Server{
		log:            p.Log.Named("server"),
		metrics:        p.Metrics,
		tracer:         tp.Tracer("github.com/railzwaylabs/supportdesk/internal/server"),
		authorizer:     p.Authorizer,
		catalog:        p.Catalog,
		pricingSvc:     p.PricingSvc,
		bookingPolicy:  p.BookingPolicy,
		priceRuleSvc:   p.PriceRuleSvc,
		commissionSvc:  p.CommissionSvc,
		auditExportSvc: p.AuditExportSvc,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestID(), s.observe(), s.actorRole())
	s.RegisterRoutes(engine)
	s.engine = engine
	return s
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.Health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")

	api.GET("/services", s.requireAccess(authorization.ObjectQuotes, authorization.ActionRead), s.ListServices)

	quotes := api.Group("/quotes", s.requireAccess(authorization.ObjectQuotes, authorization.ActionRead))
	quotes.POST("", s.CreateQuote)
	quotes.GET("/live", s.StreamQuotes)
	quotes.POST("/document", s.QuoteDocument)

	booking := api.Group("", s.requireAccess(authorization.ObjectBooking, authorization.ActionRead))
	booking.GET("/booking-settings", s.GetBookingSettings)
	booking.POST("/booking-fees", s.CalculateBookingFee)

	readRules := s.requireAccess(authorization.ObjectRules, authorization.ActionRead)
	writeRules := s.requireAccess(authorization.ObjectRules, authorization.ActionWrite)

	api.GET("/pricing-rules", readRules, s.ListPriceRules)
	api.POST("/pricing-rules", writeRules, s.CreatePriceRule)
	api.GET("/pricing-rules/:id", readRules, s.GetPriceRule)
	api.PUT("/pricing-rules/:id", writeRules, s.UpdatePriceRule)
	api.DELETE("/pricing-rules/:id", writeRules, s.DeletePriceRule)

	api.GET("/readiness", readRules, s.GetReadiness)

	api.GET("/commission-rules", readRules, s.ListCommissionRules)
	api.POST("/commission-rules", writeRules, s.CreateCommissionRule)
	api.GET("/commission-rules/:id", readRules, s.GetCommissionRule)
	api.PUT("/commission-rules/:id", writeRules, s.UpdateCommissionRule)
	api.DELETE("/commission-rules/:id", writeRules, s.DeleteCommissionRule)

	if s.auditExportSvc != nil {
		api.GET("/audit-logs/export", s.requireAccess(authorization.ObjectAuditLog, authorization.ActionRead), s.ExportAuditLogs)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func registerLifecycle(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
