// Package log wraps slog with component-scoped loggers and the standard
// field names used across the services and workers.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldEntityID  = "entity_id"
	FieldDebtID    = "debt_id"
	FieldGoalID    = "goal_id"
	FieldMonth     = "month"
	FieldAmount    = "amount_cents"
)

// Standard component names.
const (
	ComponentAPI      = "api"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
	ComponentAutoSave = "autosave"
	ComponentAlerts   = "alerts"
)

// New builds a text-handler logger at the given level name. Unknown names
// fall back to info.
func New(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// SetDefault installs logger as the process-wide default.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}

// WithComponent scopes a logger to one component.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(FieldComponent, component)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
