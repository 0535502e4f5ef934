// Package common provides shared types and utilities for UI features.
package common

import (
	"log/slog"

	"github.com/gorilla/sessions"

	"github.com/haulwise/tmsadmin/internal/store"
	"github.com/haulwise/tmsadmin/internal/ui/notifier"
)

// Deps holds the dependencies shared by feature handlers.
type Deps struct {
	Store        store.Store
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
	IsDev        bool
}

// Log returns the logger, or a discarding one when none is set.
func (d Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
