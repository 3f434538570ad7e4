package config

import (
	"os"

	"go.uber.org/fx"
)

// Module provides the Loader and the decoded Config. The config file path is
// taken from SUPPORTDESK_CONFIG; the CLI sets it from --config.
var Module = fx.Module("config",
	fx.Provide(func() (*Loader, error) {
		return NewLoader(os.Getenv(envPrefix + "_CONFIG"))
	}),
	fx.Provide(func(l *Loader) (Config, error) {
		return l.Config()
	}),
)
