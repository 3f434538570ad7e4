package commissionrule

import (
	"github.com/railzwaylabs/supportdesk/internal/commissionrule/repository"
	"github.com/railzwaylabs/supportdesk/internal/commissionrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("commissionrule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
