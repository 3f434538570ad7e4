package pricerule

import (
	"github.com/railzwaylabs/supportdesk/internal/pricerule/repository"
	"github.com/railzwaylabs/supportdesk/internal/pricerule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricerule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
