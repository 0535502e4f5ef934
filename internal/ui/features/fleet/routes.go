package fleet

import (
	"github.com/go-chi/chi/v5"

	"github.com/haulwise/tmsadmin/internal/ui/features/common"
)

// SetupRoutes configures routes for the fleet feature.
func SetupRoutes(router chi.Router, deps common.Deps, cfg Config) error {
	handlers := NewHandlers(deps, cfg)

	router.Route("/fleet/{kind}", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Post("/", handlers.Create)
		r.Post("/table", handlers.TableAction)
		r.Get("/updates", handlers.ListUpdates)
		r.Get("/new", handlers.NewPage)
		r.Get("/{id}", handlers.DetailPage)
		r.Post("/{id}", handlers.Update)
		r.Get("/{id}/edit", handlers.EditPage)
		r.Post("/{id}/delete", handlers.Delete)
	})

	return nil
}
