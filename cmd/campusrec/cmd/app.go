package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/campusrec/campusrec/internal/adapter/outbound/api"
	"github.com/campusrec/campusrec/internal/adapter/outbound/snapshot"
	"github.com/campusrec/campusrec/internal/adapter/outbound/state"
	"github.com/campusrec/campusrec/internal/config"
	"github.com/campusrec/campusrec/internal/domain/auth"
	"github.com/campusrec/campusrec/internal/domain/catalog"
	"github.com/campusrec/campusrec/internal/metrics"
	"github.com/campusrec/campusrec/internal/service/authgate"
	"github.com/campusrec/campusrec/internal/service/guard"
	"github.com/campusrec/campusrec/internal/service/health"
	"github.com/campusrec/campusrec/internal/service/resource"
	"github.com/campusrec/campusrec/internal/telemetry"
)

// app wires the client stack for one command invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *api.Client
	gateway *authgate.Gateway
	monitor *health.Monitor
	snaps   *snapshot.Store

	shutdowns []func(context.Context) error
}

// newApp loads config, builds the full stack, and rehydrates the
// persisted session.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log)
	if used := config.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config file", "path", used)
	}

	a := &app{cfg: cfg, logger: logger}

	telemetryShutdown, err := telemetry.Setup(cfg.Telemetry.Enabled, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	a.shutdowns = append(a.shutdowns, telemetryShutdown)

	if cfg.Metrics.Addr != "" {
		a.shutdowns = append(a.shutdowns, metrics.Serve(cfg.Metrics.Addr, logger))
	}

	timeout, backoff, healthInterval := cfg.Durations()
	a.client = api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(timeout),
		api.WithRetryPolicy(api.RetryPolicy{
			MaxAttempts: cfg.API.RetryAttempts,
			Backoff:     api.LinearBackoff(backoff),
		}),
		api.WithLogger(logger),
	)

	// The session store writes a lock file next to session.json; the
	// directory must exist even when snapshot caching is disabled.
	if err := os.MkdirAll(filepath.Dir(cfg.Session.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	sessionStore := state.NewFileSessionStore(cfg.Session.Path, logger)
	a.gateway = authgate.New(sessionStore, a.client, logger)
	a.gateway.Rehydrate()

	a.monitor = health.NewMonitor(a.client, healthInterval, logger)

	if cfg.Snapshot.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Snapshot.Path), 0o700); err == nil {
			if snaps, err := snapshot.Open(cfg.Snapshot.Path, logger); err == nil {
				a.snaps = snaps
			} else {
				logger.Warn("snapshot cache unavailable", "error", err)
			}
		}
	}

	return a, nil
}

// Close releases everything newApp built. Safe on a partially built app.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.monitor.Stop()
	if a.snaps != nil {
		if err := a.snaps.Close(); err != nil {
			a.logger.Warn("failed to close snapshot cache", "error", err)
		}
	}
	for _, shutdown := range a.shutdowns {
		if err := shutdown(ctx); err != nil {
			a.logger.Warn("shutdown hook failed", "error", err)
		}
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// requireRole enforces a route guard before a command body runs. Pass
// "" to require any authenticated session.
func (a *app) requireRole(role auth.Role) error {
	switch guard.Guard(a.gateway, role) {
	case guard.DecisionAllow:
		return nil
	case guard.DecisionLogin:
		return errors.New(`not signed in; run "campusrec login" first`)
	case guard.DecisionLanding:
		return fmt.Errorf("this command requires the %s role", role)
	default:
		return errors.New("session state is still settling; try again")
	}
}

// forceMock reports whether commands should skip the backend entirely.
func (a *app) forceMock() bool {
	return demoMode
}

// ---------------------------------------------------------------------------
// Resource context constructors
// ---------------------------------------------------------------------------

func (a *app) studentsContext() *resource.Context[catalog.Student] {
	return resource.New(resource.Config[catalog.Student]{
		Name:      "students",
		Fetch:     a.client.ListStudents,
		Mock:      catalog.MockStudents,
		KeyOf:     catalog.Student.Key,
		Snapshots: a.snaps,
		Degraded:  a.monitor.Degraded,
		Logger:    a.logger,
	})
}

func (a *app) professorsContext() *resource.Context[catalog.Professor] {
	return resource.New(resource.Config[catalog.Professor]{
		Name:      "professors",
		Fetch:     a.client.ListProfessors,
		Mock:      catalog.MockProfessors,
		KeyOf:     catalog.Professor.Key,
		Snapshots: a.snaps,
		Degraded:  a.monitor.Degraded,
		Logger:    a.logger,
	})
}

func (a *app) coursesContext() *resource.Context[catalog.Course] {
	return resource.New(resource.Config[catalog.Course]{
		Name:      "courses",
		Fetch:     a.client.ListCourses,
		Mock:      catalog.MockCourses,
		KeyOf:     catalog.Course.Key,
		Snapshots: a.snaps,
		Degraded:  a.monitor.Degraded,
		Logger:    a.logger,
	})
}

func (a *app) recommendationsContext(studentName string, limit int) *resource.Context[catalog.Recommendation] {
	return resource.New(resource.Config[catalog.Recommendation]{
		Name: "recommendations",
		Fetch: func(ctx context.Context) ([]catalog.Recommendation, error) {
			return a.client.Recommendations(ctx, studentName, limit)
		},
		Mock:      catalog.MockRecommendations,
		KeyOf:     catalog.Recommendation.Key,
		Snapshots: a.snaps,
		Degraded:  a.monitor.Degraded,
		Logger:    a.logger,
	})
}

// sourceNote renders the data-source banner shown above listings.
func sourceNote[T any](st resource.State[T]) string {
	if st.Source != resource.SourceMock {
		return ""
	}
	note := "showing demo data (backend unavailable)"
	if st.Err != "" {
		note += ": " + st.Err
	}
	return note
}
