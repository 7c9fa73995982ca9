package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	gormModels "textile-qc/inspections/internal/models/gorm"
)

// fakeInspectionRepo is an in-memory InspectionRepository. insertErr, when
// set, decides per record whether Insert fails.
type fakeInspectionRepo struct {
	mu        sync.Mutex
	records   map[string]gormModels.Inspection
	inserts   int
	insertErr func(rec *gormModels.Inspection) error
	manyErr   error
}

func newFakeInspectionRepo() *fakeInspectionRepo {
	return &fakeInspectionRepo{records: map[string]gormModels.Inspection{}}
}

func (f *fakeInspectionRepo) store(rec *gormModels.Inspection) {
	rec.ID = uuid.NewString()
	now := time.Now()
	rec.CreatedAt = now.Add(time.Duration(len(f.records)) * time.Millisecond)
	rec.UpdatedAt = rec.CreatedAt
	f.records[rec.ID] = *rec
}

func (f *fakeInspectionRepo) Insert(ctx context.Context, rec *gormModels.Inspection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts++
	if f.insertErr != nil {
		if err := f.insertErr(rec); err != nil {
			return err
		}
	}
	f.store(rec)
	return nil
}

func (f *fakeInspectionRepo) InsertMany(ctx context.Context, recs []*gormModels.Inspection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.manyErr != nil {
		return f.manyErr
	}
	for _, rec := range recs {
		f.store(rec)
	}
	return nil
}

func (f *fakeInspectionRepo) FindAll(ctx context.Context) ([]gormModels.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]gormModels.Inspection, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeInspectionRepo) FindByID(ctx context.Context, id string) (*gormModels.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeInspectionRepo) UpdateByID(ctx context.Context, id string, apply func(*gormModels.Inspection) error) (*gormModels.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	if err := apply(&rec); err != nil {
		return nil, err
	}
	rec.ID = id
	f.records[id] = rec
	return &rec, nil
}

func (f *fakeInspectionRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeInspectionRepo) DeleteAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := int64(len(f.records))
	f.records = map[string]gormModels.Inspection{}
	return n, nil
}

// failingRepo returns err from every call.
type failingRepo struct {
	fakeInspectionRepo
	err error
}

func (f *failingRepo) Insert(context.Context, *gormModels.Inspection) error { return f.err }
func (f *failingRepo) FindAll(context.Context) ([]gormModels.Inspection, error) {
	return nil, f.err
}
func (f *failingRepo) FindByID(context.Context, string) (*gormModels.Inspection, error) {
	return nil, f.err
}
func (f *failingRepo) DeleteByID(context.Context, string) (bool, error) { return false, f.err }
func (f *failingRepo) DeleteAll(context.Context) (int64, error)        { return 0, f.err }
func (f *failingRepo) UpdateByID(context.Context, string, func(*gormModels.Inspection) error) (*gormModels.Inspection, error) {
	return nil, f.err
}

var errConnectionLost = fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused")
