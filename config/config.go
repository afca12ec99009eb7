// Package config parses process environment variables into the settings a
// hosting binary needs to assemble and run a wex App.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings a server binary needs to start listening and
// wire up its ambient stack (logger level, trace exporter).
type Config struct {
	ServiceName string `env:"WEX_SERVICE_NAME" envDefault:"wex"`
	Addr        string `env:"WEX_ADDR" envDefault:":8080"`

	LogLevel     zapcore.Level `env:"WEX_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"WEX_OTEL_EXPORTER" envDefault:"stdout"`

	ReadTimeout  time.Duration `env:"WEX_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WEX_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"WEX_IDLE_TIMEOUT" envDefault:"120s"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(err, "failed to parse environment")
	}
	return c, nil
}
