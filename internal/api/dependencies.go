package api

import (
	"time"

	"textile-qc/inspections/internal/db"
	"textile-qc/inspections/internal/db/repositories"
	"textile-qc/inspections/internal/metrics"
	"textile-qc/inspections/internal/services"
)

type Repositories struct {
	Inspections repositories.InspectionRepository
}

type Services struct {
	Inspections *services.InspectionService
	Import      *services.InspectionImportService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies builds repositories and services over an open store.
func InitDependencies(store *db.Store, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Inspections: repositories.NewInspectionRepositoryGORM(store.ORM, metricsReg),
	}
	return NewDependencies(repos, time.Now, metricsReg), nil
}

// NewDependencies wires services over the given repositories. Tests pass a
// fake repository and a fixed clock.
func NewDependencies(repos *Repositories, now func() time.Time, metricsReg *metrics.MetricsRegistry) *Dependencies {
	normalizer := services.NewNormalizer(now)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Inspections: services.NewInspectionService(repos.Inspections, normalizer, metricsReg),
			Import:      services.NewInspectionImportService(repos.Inspections, normalizer, metricsReg),
		},
		Metrics: metricsReg,
	}
}
