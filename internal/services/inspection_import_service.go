package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"textile-qc/inspections/internal/common"
	"textile-qc/inspections/internal/db/repositories"
	"textile-qc/inspections/internal/logging"
	"textile-qc/inspections/internal/metrics"
	"textile-qc/inspections/internal/models/dtos"
	gormModels "textile-qc/inspections/internal/models/gorm"
)

// ImportMode selects how a batch is committed.
type ImportMode string

const (
	// ImportModePerItem stores every item with its own insert and keeps whatever succeeded.
	ImportModePerItem ImportMode = "per-item"
	// ImportModeAtomic stores the whole batch in one transaction or nothing at all.
	ImportModeAtomic ImportMode = "atomic"
)

const msgSaveFailed = "Failed to save inspection"

// ErrBatchRejected is returned in atomic mode when at least one item could not
// be normalized. The accompanying result lists the failing items.
var ErrBatchRejected = &ValidationError{Message: "Import rejected: one or more records are invalid"}

type InspectionImportService struct {
	repo       repositories.InspectionRepository
	normalizer *Normalizer
	metrics    *metrics.MetricsRegistry
}

// NewInspectionImportService wires the import pipeline. metricsReg may be nil.
func NewInspectionImportService(repo repositories.InspectionRepository, normalizer *Normalizer, metricsReg *metrics.MetricsRegistry) *InspectionImportService {
	return &InspectionImportService{repo: repo, normalizer: normalizer, metrics: metricsReg}
}

// Import normalizes and stores items. In per-item mode failures are collected
// in the result and never abort the batch; items are processed strictly in order.
func (s *InspectionImportService) Import(ctx context.Context, items []any, mode ImportMode) (*dtos.ImportResult, error) {
	if len(items) == 0 {
		return nil, ErrNoData
	}
	if s.metrics != nil {
		s.metrics.ImportBatchSize.Observe(float64(len(items)))
	}

	start := time.Now()
	var (
		result *dtos.ImportResult
		err    error
	)
	switch mode {
	case ImportModeAtomic:
		result, err = s.importAtomic(ctx, items)
	default:
		mode = ImportModePerItem
		result, err = s.importPerItem(ctx, items)
	}

	if result != nil {
		s.count(result)
		logging.Info("Inspection import finished",
			"mode", string(mode),
			"items", len(items),
			"success_count", result.SuccessCount,
			"failure_count", result.FailureCount,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return result, err
}

func (s *InspectionImportService) importPerItem(ctx context.Context, items []any) (*dtos.ImportResult, error) {
	acc := newImportAccumulator()

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			logging.Warn("Inspection import interrupted",
				"processed", i,
				"success_count", acc.result.SuccessCount,
				"error", err.Error(),
			)
			return acc.result, storageErr("import", err)
		}

		rec, err := s.normalizeItem(item)
		if err != nil {
			acc.fail(i, err.Error(), item)
			continue
		}

		if err := s.repo.Insert(ctx, rec); err != nil {
			logging.Error("Failed to store imported inspection", "index", i, "error", err.Error())
			acc.fail(i, msgSaveFailed, item)
			continue
		}
		acc.succeed()
	}

	return acc.result, nil
}

func (s *InspectionImportService) importAtomic(ctx context.Context, items []any) (*dtos.ImportResult, error) {
	acc := newImportAccumulator()
	recs := make([]*gormModels.Inspection, 0, len(items))

	for i, item := range items {
		rec, err := s.normalizeItem(item)
		if err != nil {
			acc.fail(i, err.Error(), item)
			continue
		}
		recs = append(recs, rec)
	}
	if acc.result.FailureCount > 0 {
		return acc.result, ErrBatchRejected
	}

	if err := s.repo.InsertMany(ctx, recs); err != nil {
		logging.Error("Atomic inspection import failed", "items", len(recs), "error", err.Error())
		return nil, storageErr("insert_many", err)
	}
	acc.result.SuccessCount = len(recs)
	return acc.result, nil
}

func (s *InspectionImportService) normalizeItem(item any) (*gormModels.Inspection, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("expected an object, got %s", common.ValueOf(item).Kind())}
	}
	return s.normalizer.Normalize(common.FieldsOf(obj))
}

func (s *InspectionImportService) count(result *dtos.ImportResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.ImportItemsTotal.WithLabelValues("success").Add(float64(result.SuccessCount))
	s.metrics.ImportItemsTotal.WithLabelValues("failure").Add(float64(result.FailureCount))
}

// importAccumulator collects per-item outcomes in input order.
type importAccumulator struct {
	result *dtos.ImportResult
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{result: &dtos.ImportResult{Errors: []dtos.ImportFailure{}}}
}

func (a *importAccumulator) succeed() {
	a.result.SuccessCount++
}

func (a *importAccumulator) fail(index int, message string, original any) {
	a.result.FailureCount++
	a.result.Errors = append(a.result.Errors, dtos.ImportFailure{
		Index:        index,
		Error:        message,
		OriginalData: original,
	})
}

// IsBatchRejected reports whether err came from an atomic import with invalid items.
func IsBatchRejected(err error) bool {
	return errors.Is(err, ErrBatchRejected)
}
