package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	DefaultAddress   = "0.0.0.0:3000"
	DefaultLogFilter = "info"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds the filter expression, e.g. "info" or "warn,hello_server=debug".
// Unparsable values are not rejected; the logger falls back to info.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig enables the metrics listener when Address is set.
type MetricsConfig struct {
	Address    string `mapstructure:"address"`
	BufferSize int    `mapstructure:"buffer_size"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`

	v *viper.Viper
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("logging.level", DefaultLogFilter)
	v.SetDefault("metrics.address", "")
	v.SetDefault("metrics.buffer_size", 1000)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("logging.level", "LOG_LEVEL", "LOGGING_LEVEL"); err != nil {
		return nil, fmt.Errorf("bind log level env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.v = v

	return cfg, nil
}

// Watch calls onChange with the freshly decoded configuration each time the
// config file is written. It does nothing when no file was loaded.
func (c *Config) Watch(onChange func(*Config, error)) {
	if c.v == nil || c.Source == "" {
		return
	}

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := decode(c.v)
		if cfg != nil {
			cfg.Source = c.Source
			cfg.v = c.v
		}
		onChange(cfg, err)
	})
	c.v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
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
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(ValidateHostPort),
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
						validation.When(mc.Address != "", validation.By(ValidateHostPort)),
					),
					validation.Field(&mc.BufferSize,
						validation.Required,
						validation.Min(1),
					),
				)
			}),
		),
	)
}

// ValidateHostPort checks that value is a host:port string with a non-empty
// port. An empty host means all interfaces.
func ValidateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
