package services

import (
	"context"
	"errors"

	"textile-qc/inspections/internal/common"
	"textile-qc/inspections/internal/db/repositories"
	"textile-qc/inspections/internal/logging"
	"textile-qc/inspections/internal/metrics"
	gormModels "textile-qc/inspections/internal/models/gorm"
)

// InspectionService maps the CRUD endpoints onto the repository and
// translates storage results into ValidationError, ErrInspectionNotFound or
// StorageError.
type InspectionService struct {
	repo       repositories.InspectionRepository
	normalizer *Normalizer
	metrics    *metrics.MetricsRegistry
}

func NewInspectionService(repo repositories.InspectionRepository, normalizer *Normalizer, metricsReg *metrics.MetricsRegistry) *InspectionService {
	return &InspectionService{repo: repo, normalizer: normalizer, metrics: metricsReg}
}

func (s *InspectionService) List(ctx context.Context) ([]gormModels.Inspection, error) {
	recs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("find_all", err)
	}
	return recs, nil
}

func (s *InspectionService) Get(ctx context.Context, id string) (*gormModels.Inspection, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find_by_id", err)
	}
	if rec == nil {
		return nil, ErrInspectionNotFound
	}
	return rec, nil
}

// Create runs the same normalization as a bulk import item and stores the result.
func (s *InspectionService) Create(ctx context.Context, fields common.Fields) (*gormModels.Inspection, error) {
	rec, err := s.normalizer.Normalize(fields)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, storageErr("insert", err)
	}

	logging.Debug("Inspection created", "id", rec.ID, "inspection_id", rec.InspectionID)
	return rec, nil
}

// Update applies only the fields present in the payload. Reserved fields and
// unknown keys are ignored.
func (s *InspectionService) Update(ctx context.Context, id string, fields common.Fields) (*gormModels.Inspection, error) {
	rec, err := s.repo.UpdateByID(ctx, id, func(rec *gormModels.Inspection) error {
		return applyPartial(rec, fields)
	})
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		return nil, storageErr("update_by_id", err)
	}
	if rec == nil {
		return nil, ErrInspectionNotFound
	}
	return rec, nil
}

func (s *InspectionService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return storageErr("delete_by_id", err)
	}
	if !deleted {
		return ErrInspectionNotFound
	}
	if s.metrics != nil {
		s.metrics.InspectionsDeleted.Inc()
	}
	return nil
}

// DeleteAll removes every record; there is no soft delete.
func (s *InspectionService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, storageErr("delete_all", err)
	}
	if s.metrics != nil {
		s.metrics.InspectionsDeleted.Add(float64(n))
	}
	logging.Warn("All inspections deleted", "deleted_count", n)
	return n, nil
}

// applyPartial coerces each present field exactly like Normalize does. An
// inspectionDate that cannot be parsed is rejected instead of replaced by now.
func applyPartial(rec *gormModels.Inspection, in common.Fields) error {
	f := prepareFields(in)

	if err := decodeInto(rec, f); err != nil {
		return err
	}

	if v := f.Get("inspectionDate"); !v.IsBlank() {
		t, ok := v.Time()
		if !ok {
			return &ValidationError{Field: "inspectionDate", Message: "invalid date"}
		}
		rec.InspectionDate = t
	}

	if f.Has("year") {
		year, ok, err := f.Get("year").Int()
		if err != nil {
			return &ValidationError{Field: "year", Message: err.Error()}
		}
		if ok {
			rec.Year = year
		}
	}

	if f.Has("month") {
		month, err := monthName(f.Get("month"))
		if err != nil {
			return err
		}
		if month != "" {
			rec.Month = month
		}
	}

	if rec.InspectionStatus == "" {
		rec.InspectionStatus = deriveStatusFrom(f, rec)
	}
	return nil
}
