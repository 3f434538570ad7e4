package audit

import (
	auditdomain "github.com/railzwaylabs/supportdesk/internal/audit/domain"
	"github.com/railzwaylabs/supportdesk/internal/audit/repository"
	"github.com/railzwaylabs/supportdesk/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(
		func(s *service.Service) auditdomain.Service { return s },
		func(s *service.Service) auditdomain.ExportService { return s },
	),
)
