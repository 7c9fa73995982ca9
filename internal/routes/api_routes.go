package routes

import (
	"textile-qc/inspections/internal/api"
	"textile-qc/inspections/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const inspectionsBasePath = "/api/inspections"

// RegisterAPIRoutes registers the inspection routes under /api/inspections.
// Static segments (import, bulk, deleteAll) take precedence over {id} in chi.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, maxBodyBytes int64) {
	r.Route(inspectionsBasePath, func(insp chi.Router) {
		insp.Use(middleware.InFlightMiddleware(deps.Metrics, inspectionsBasePath))
		if maxBodyBytes > 0 {
			insp.Use(chimw.RequestSize(maxBodyBytes))
		}

		insp.Get("/", handlers.ListInspections())
		insp.Post("/", handlers.CreateInspection())

		// Excel/CSV uploads from the dashboard
		insp.Post("/import", handlers.ImportInspections())
		insp.Post("/bulk", handlers.ImportInspections())

		insp.Delete("/deleteAll", handlers.DeleteAllInspections())

		insp.Get("/{id}", handlers.GetInspection())
		insp.Put("/{id}", handlers.UpdateInspection())
		insp.Delete("/{id}", handlers.DeleteInspection())
	})
}
