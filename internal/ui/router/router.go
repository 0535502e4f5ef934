// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/haulwise/tmsadmin/internal/ui/features/common"
	fleetFeature "github.com/haulwise/tmsadmin/internal/ui/features/fleet"
	homeFeature "github.com/haulwise/tmsadmin/internal/ui/features/home"
	settingsFeature "github.com/haulwise/tmsadmin/internal/ui/features/settings"
	"github.com/haulwise/tmsadmin/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps common.Deps, fleetCfg fleetFeature.Config) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler(deps.Log()))

	// Feature routes
	if err := homeFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := fleetFeature.SetupRoutes(router, deps, fleetCfg); err != nil {
		return err
	}

	if err := settingsFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
