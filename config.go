package tico

import (
	"github.com/oneconcern/tico/pkg/dlogger"
	"github.com/oneconcern/tico/pkg/engine"
	"go.uber.org/zap"
)

// Config for the tico command
type Config struct {
	Metadata string `mapstructure:"metadata" json:"metadata,omitempty" yaml:"metadata,omitempty"`
	LogLevel string `mapstructure:"loglevel" json:"loglevel,omitempty" yaml:"loglevel,omitempty"`
	User     string `mapstructure:"user" json:"user,omitempty" yaml:"user,omitempty"`
	Yes      bool   `mapstructure:"yes" json:"yes,omitempty" yaml:"yes,omitempty"`
}

// Logger configured by the log level
func (c *Config) Logger() (*zap.Logger, error) {
	return dlogger.GetLogger(c.LogLevel)
}

// EngineOptions derived from the config.
//
// The configured user is used when the operating system does not provide one.
func (c *Config) EngineOptions(logger *zap.Logger) []engine.Option {
	opts := []engine.Option{
		engine.MetaDir(c.Metadata),
		engine.Logger(logger),
	}
	if c.User != "" {
		fallback := c.User
		system := engine.OSUser()
		opts = append(opts, engine.Users(engine.UserFunc(func() string {
			if u := system.CurrentUser(); u != "" {
				return u
			}
			return fallback
		})))
	}
	return opts
}
