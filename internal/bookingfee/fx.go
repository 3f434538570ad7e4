package bookingfee

import (
	"github.com/railzwaylabs/supportdesk/internal/bookingfee/domain"
	"github.com/railzwaylabs/supportdesk/internal/bookingfee/service"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("bookingfee.service",
	fx.Provide(
		service.New,
		func(p *service.Policy) domain.Policy { return p },
	),
	fx.Invoke(watchConfig),
)

// watchConfig keeps the policy in step with edits to the config file.
func watchConfig(loader *config.Loader, policy *service.Policy, log *zap.Logger) {
	log = log.Named("bookingfee.watch")
	loader.OnBookingChange(func(cfg config.BookingConfig) {
		if err := policy.Replace(service.FromConfig(cfg)); err != nil {
			log.Warn("ignoring booking fee change", zap.Error(err))
		}
	}, func(err error) {
		log.Warn("config reload failed", zap.Error(err))
	})
}
