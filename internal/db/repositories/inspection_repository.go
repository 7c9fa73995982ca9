package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"textile-qc/inspections/internal/metrics"
	gormModels "textile-qc/inspections/internal/models/gorm"

	"gorm.io/gorm"
)

// InspectionRepository is the storage contract used by the inspection services.
// Lookups return nil, nil when the id does not exist.
type InspectionRepository interface {
	Insert(ctx context.Context, rec *gormModels.Inspection) error
	InsertMany(ctx context.Context, recs []*gormModels.Inspection) error
	FindAll(ctx context.Context) ([]gormModels.Inspection, error)
	FindByID(ctx context.Context, id string) (*gormModels.Inspection, error)
	UpdateByID(ctx context.Context, id string, apply func(*gormModels.Inspection) error) (*gormModels.Inspection, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

const insertBatchSize = 200

type InspectionRepositoryGORM struct {
	db      *gorm.DB
	metrics *metrics.MetricsRegistry
}

var _ InspectionRepository = (*InspectionRepositoryGORM)(nil)

// NewInspectionRepositoryGORM creates a new GORM-based inspection repository.
// metricsReg may be nil.
func NewInspectionRepositoryGORM(db *gorm.DB, metricsReg *metrics.MetricsRegistry) *InspectionRepositoryGORM {
	return &InspectionRepositoryGORM{db: db, metrics: metricsReg}
}

func (r *InspectionRepositoryGORM) Insert(ctx context.Context, rec *gormModels.Inspection) (err error) {
	defer r.observe("insert", time.Now(), &err)

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert inspection: %w", err)
	}
	return nil
}

// InsertMany stores all records in one transaction; nothing is kept if any insert fails.
func (r *InspectionRepositoryGORM) InsertMany(ctx context.Context, recs []*gormModels.Inspection) (err error) {
	defer r.observe("insert_many", time.Now(), &err)

	if len(recs) == 0 {
		return nil
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(recs, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to insert %d inspections: %w", len(recs), err)
	}
	return nil
}

// FindAll returns every inspection, newest created first.
func (r *InspectionRepositoryGORM) FindAll(ctx context.Context) (_ []gormModels.Inspection, err error) {
	defer r.observe("find_all", time.Now(), &err)

	recs := []gormModels.Inspection{}
	err = r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return recs, nil
}

func (r *InspectionRepositoryGORM) FindByID(ctx context.Context, id string) (_ *gormModels.Inspection, err error) {
	defer r.observe("find_by_id", time.Now(), &err)

	var rec gormModels.Inspection
	err = r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch inspection %s: %w", id, err)
	}
	return &rec, nil
}

// UpdateByID loads the record, lets apply mutate it and saves it, all in one
// transaction. Errors returned by apply are passed through unwrapped.
func (r *InspectionRepositoryGORM) UpdateByID(ctx context.Context, id string, apply func(*gormModels.Inspection) error) (_ *gormModels.Inspection, err error) {
	defer r.observe("update_by_id", time.Now(), &err)

	var (
		rec      gormModels.Inspection
		applyErr error
		found    = true
	)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		if err := apply(&rec); err != nil {
			applyErr = err
			return err
		}
		rec.ID = id

		return tx.Save(&rec).Error
	})

	if applyErr != nil {
		return nil, applyErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inspection %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// DeleteByID reports false when no record had the id.
func (r *InspectionRepositoryGORM) DeleteByID(ctx context.Context, id string) (_ bool, err error) {
	defer r.observe("delete_by_id", time.Now(), &err)

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.Inspection{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete inspection %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteAll removes every inspection and returns how many rows were deleted.
func (r *InspectionRepositoryGORM) DeleteAll(ctx context.Context) (_ int64, err error) {
	defer r.observe("delete_all", time.Now(), &err)

	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&gormModels.Inspection{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete inspections: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *InspectionRepositoryGORM) observe(op string, start time.Time, errp *error) {
	if r.metrics == nil {
		return
	}
	result := "ok"
	if errp != nil && *errp != nil {
		result = "error"
	}
	r.metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	r.metrics.DBQueriesTotal.WithLabelValues(op, result).Inc()
}
