package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/aicrm/internal/api/v1"
	"github.com/gosuda/aicrm/internal/api/ws"
)

func registerAPIRoutes(api huma.API, store v1.DataStore) {
	v1.RegisterInteractionRoutes(api, store)
}

func registerAgentRoutes(api huma.API, deps Deps) {
	v1.RegisterAgentRoutes(api, deps.Planner, deps.Extractor, deps.Dispatcher)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/interactions", hub.ServeInteractions)
	r.Get("/interactions/{id}", hub.ServeInteraction)
}
