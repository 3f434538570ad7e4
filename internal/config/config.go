package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const envPrefix = "SUPPORTDESK"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Booking   BookingConfig   `mapstructure:"booking"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type PricingConfig struct {
	// Timezone is the IANA zone used to bucket wall-clock readings.
	Timezone string `mapstructure:"timezone"`
}

// BookingConfig holds the flat intake fees keyed by scheduling lead time.
type BookingConfig struct {
	SameDayFee   decimal.Decimal `mapstructure:"same_day_fee"`
	FutureDayFee decimal.Decimal `mapstructure:"future_day_fee"`
}

type SnowflakeConfig struct {
	Node int64 `mapstructure:"node"`
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Location resolves Pricing.Timezone. Loaded configs are validated, so the
// UTC fallback only applies to zero or hand-built values.
func (c Config) Location() *time.Location {
	if c.Pricing.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Pricing.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "supportdesk")
	v.SetDefault("app.env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:supportdesk.db?cache=shared")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "5m")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_ratio", 1.0)
	v.SetDefault("pricing.timezone", "UTC")
	v.SetDefault("booking.same_day_fee", "20.00")
	v.SetDefault("booking.future_day_fee", "30.00")
	v.SetDefault("snowflake.node", 1)
}

// Loader owns the viper instance so that file changes can be observed after
// the initial Load.
type Loader struct {
	v *viper.Viper
}

func NewLoader(path string) (*Loader, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	return &Loader{v: v}, nil
}

func (l *Loader) Config() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg, viper.DecodeHook(decimalHook())); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OnBookingChange invokes fn with the re-read booking fees every time the
// config file changes. Invalid edits are reported through onErr and ignored.
func (l *Loader) OnBookingChange(fn func(BookingConfig), onErr func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.Config()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(cfg.Booking)
	})
	l.v.WatchConfig()
}

// Load is a convenience for callers that do not watch the file.
func Load(path string) (Config, error) {
	l, err := NewLoader(path)
	if err != nil {
		return Config{}, err
	}
	return l.Config()
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Booking.SameDayFee.IsNegative() {
		return errors.New("booking.same_day_fee must not be negative")
	}
	if c.Booking.FutureDayFee.IsNegative() {
		return errors.New("booking.future_day_fee must not be negative")
	}
	if _, err := time.LoadLocation(c.Pricing.Timezone); err != nil {
		return fmt.Errorf("pricing.timezone %q: %w", c.Pricing.Timezone, err)
	}
	if c.Snowflake.Node < 0 || c.Snowflake.Node > 1023 {
		return fmt.Errorf("snowflake.node %d out of range", c.Snowflake.Node)
	}
	return nil
}
