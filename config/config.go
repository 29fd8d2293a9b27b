package config

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/statusfan/internal/httpserver"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type AggregatorConfig struct {
	Endpoints   []string `mapstructure:"endpoints"`
	MaxAttempts int      `mapstructure:"max_attempts"`
	Timeout     string   `mapstructure:"timeout"`
	Deadline    string   `mapstructure:"deadline"`
}

type DispatcherConfig struct {
	Recipients int    `mapstructure:"recipients"`
	Payload    string `mapstructure:"payload"`
	SendDelay  string `mapstructure:"send_delay"`
	Workers    int    `mapstructure:"workers"`
	Schedule   string `mapstructure:"schedule"`
}

type StubConfig struct {
	Address    string `mapstructure:"address"`
	Route      string `mapstructure:"route"`
	Body       string `mapstructure:"body"`
	Status     int    `mapstructure:"status"`
	RatePerSec int    `mapstructure:"rate_per_sec"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
	Stub       StubConfig       `mapstructure:"stub"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("aggregator.endpoints", []string{
		"http://127.0.0.1:8080/get_char",
		"http://127.0.0.1:4080/get_char",
	})
	v.SetDefault("aggregator.max_attempts", 4)
	v.SetDefault("aggregator.timeout", "5s")
	v.SetDefault("aggregator.deadline", "30s")
	v.SetDefault("dispatcher.recipients", 4)
	v.SetDefault("dispatcher.payload", "big data")
	v.SetDefault("dispatcher.send_delay", "1s")
	v.SetDefault("dispatcher.workers", 0)
	v.SetDefault("dispatcher.schedule", "")
	v.SetDefault("stub.address", "127.0.0.1:4080")
	v.SetDefault("stub.route", "/get_char")
	v.SetDefault("stub.body", "b")
	v.SetDefault("stub.status", 0)
	v.SetDefault("stub.rate_per_sec", 0)
	v.SetDefault("metrics.address", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// TimeoutDuration bounds a single status request. Only meaningful on a
// validated config.
func (a AggregatorConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(a.Timeout)
	return d
}

// DeadlineDuration bounds a whole aggregation run.
func (a AggregatorConfig) DeadlineDuration() time.Duration {
	d, _ := time.ParseDuration(a.Deadline)
	return d
}

func (d DispatcherConfig) SendDelayDuration() time.Duration {
	delay, _ := time.ParseDuration(d.SendDelay)
	return delay
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Aggregator,
			validation.By(func(value interface{}) error {
				ac, ok := value.(AggregatorConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AggregatorConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.Endpoints,
						validation.Required,
						validation.Length(2, 2),
						validation.Each(validation.By(validateEndpointURL)),
					),
					validation.Field(&ac.MaxAttempts,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&ac.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&ac.Deadline,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Dispatcher,
			validation.By(func(value interface{}) error {
				dc, ok := value.(DispatcherConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a DispatcherConfig")
				}
				return validation.ValidateStruct(&dc,
					validation.Field(&dc.Recipients,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&dc.SendDelay,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&dc.Workers,
						validation.Min(0),
					),
					validation.Field(&dc.Schedule,
						validation.By(validateSchedule),
					),
				)
			}),
		),
		validation.Field(&c.Stub,
			validation.By(func(value interface{}) error {
				sc, ok := value.(StubConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a StubConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(httpserver.ValidateAddr),
					),
					validation.Field(&sc.Route,
						validation.Required,
						validation.By(validateRoute),
					),
					validation.Field(&sc.Status,
						validation.When(sc.Status != 0, validation.Min(100), validation.Max(599)),
					),
					validation.Field(&sc.RatePerSec,
						validation.Min(0),
					),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.Address,
						validation.When(mc.Address != "", validation.By(httpserver.ValidateAddr)),
					),
				)
			}),
		),
	)
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d < 0 {
		return validation.NewError("validation_negative_duration", "must not be negative")
	}

	return nil
}

func validateEndpointURL(value interface{}) error {
	endpoint, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if endpoint == "" {
		return validation.NewError("validation_empty_url", "endpoint URL cannot be empty")
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateSchedule(value interface{}) error {
	spec, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if spec == "" {
		return nil
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return validation.NewError("validation_invalid_schedule", "must be a cron expression or descriptor (e.g., @every 5s)")
	}

	return nil
}

func validateRoute(value interface{}) error {
	route, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if !strings.HasPrefix(route, "/") {
		return validation.NewError("validation_invalid_route", "route must start with /")
	}

	if strings.ContainsAny(route, " \t") {
		return validation.NewError("validation_invalid_route", "route cannot contain whitespace")
	}

	return nil
}
