package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	Host              string        `env:"HOST,default=0.0.0.0"`
	HTTPPort          int           `env:"HTTP_PORT,default=8080"`
	GRPCPort          int           `env:"GRPC_PORT,default=50051"`
	DebugPort         int           `env:"DEBUG_PORT,default=8081"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT,default=5s"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=4000"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=5s"`
	GCInterval        time.Duration `env:"GC_INTERVAL,default=10m"`
	GCDiscardRatio    float64       `env:"GC_DISCARD_RATIO,default=0.5"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Validate rejects values that parse but cannot run.
func (c Config) Validate() error {
	switch {
	case len(c.JWTSecret) < 16:
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	case c.AuthTokenDuration <= 0:
		return fmt.Errorf("AUTH_TOKEN_DURATION must be positive, got %s", c.AuthTokenDuration)
	case c.LimitMessages != nil && *c.LimitMessages <= 0:
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", *c.LimitMessages)
	case c.StoreTimeout <= 0:
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	case c.MaxContentLength <= 0:
		return fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", c.MaxContentLength)
	case c.MetricInterval <= 0:
		return fmt.Errorf("METRIC_INTERVAL must be positive, got %s", c.MetricInterval)
	case c.GCInterval <= 0:
		return fmt.Errorf("GC_INTERVAL must be positive, got %s", c.GCInterval)
	case c.GCDiscardRatio <= 0 || c.GCDiscardRatio >= 1:
		return fmt.Errorf("GC_DISCARD_RATIO must be in (0, 1), got %v", c.GCDiscardRatio)
	}
	for name, port := range map[string]int{"HTTP_PORT": c.HTTPPort, "GRPC_PORT": c.GRPCPort, "DEBUG_PORT": c.DebugPort} {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%s must be in [1, 65535], got %d", name, port)
		}
	}
	return nil
}

func (c Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

func (c Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}
