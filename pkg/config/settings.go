package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/variantlab/expkit/pkg/logger"
	"github.com/variantlab/expkit/pkg/profile"
	"github.com/variantlab/expkit/pkg/snapshot"
)

// Profile backend names accepted by PROFILE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Settings is the engine's top-level configuration.
type Settings struct {
	Snapshot SnapshotSettings
	Profile  ProfileSettings

	ServiceName string `env:"SERVICE_NAME" envDefault:"expkit"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

// NewLogger builds the engine logger from the log settings. Unparsable
// levels fall back to info.
func (s Settings) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return logger.New(
		logger.WithFormat(logger.Format(s.LogFormat)),
		logger.WithLevel(level),
		logger.WithAttr(slog.String("service", s.ServiceName)),
	)
}

// SnapshotSettings locates the configuration datafile.
type SnapshotSettings struct {
	Path   string `env:"SNAPSHOT_PATH,required"`
	Format string `env:"SNAPSHOT_FORMAT" envDefault:"json"`
}

// Load reads and adopts the datafile named by the settings.
func (s SnapshotSettings) Load() (*snapshot.Snapshot, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read datafile %s: %w", s.Path, err)
	}
	switch s.Format {
	case "json":
		return snapshot.ParseJSON(raw)
	case "yaml", "yml":
		return snapshot.ParseYAML(raw)
	default:
		return nil, errors.Join(ErrUnknownFormat, fmt.Errorf("format %q", s.Format))
	}
}

// ProfileSettings selects the sticky-assignment store. Backend-specific
// variables are parsed only when that backend is chosen, so a memory-backed
// deployment needs no PROFILE_REDIS_* or PROFILE_POSTGRES_* variables.
type ProfileSettings struct {
	Backend string `env:"PROFILE_BACKEND" envDefault:"memory"`
}

// NewStore connects the configured backend. The caller owns the returned
// store; for redis and postgres the underlying client is closed when the
// process ends.
func (p ProfileSettings) NewStore(ctx context.Context) (profile.Store, error) {
	switch p.Backend {
	case BackendMemory:
		return profile.NewMemoryStore(), nil
	case BackendRedis:
		var cfg profile.RedisConfig
		if err := Load(&cfg); err != nil {
			return nil, err
		}
		client, err := profile.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return profile.NewRedisStore(client, cfg), nil
	case BackendPostgres:
		var cfg profile.PostgresConfig
		if err := Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := profile.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return profile.NewPostgresStore(pool), nil
	default:
		return nil, errors.Join(ErrUnknownBackend, fmt.Errorf("backend %q", p.Backend))
	}
}
