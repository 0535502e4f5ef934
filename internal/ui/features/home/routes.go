package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/haulwise/tmsadmin/internal/ui/features/common"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, deps common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
