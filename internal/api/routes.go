package api

import (
	"net/http"

	"github.com/reclaimhq/reclaim/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	storageHandler := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		&runtime.Config.Storage,
	)

	routes.Register(
		mux,
		domain.Items.Handler().Routes(),
		domain.Claims.Handler().Routes(),
		domain.Matching.Handler().Routes(),
		domain.Monitor.Handler().Routes(),
		storageHandler.routes(),
	)
}
