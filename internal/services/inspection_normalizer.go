package services

import (
	"errors"
	"strings"
	"time"

	"textile-qc/inspections/internal/common"
	gormModels "textile-qc/inspections/internal/models/gorm"
)

const (
	StatusPass    = "Pass"
	StatusFail    = "Fail"
	StatusPending = "Pending"
	StatusAbort   = "Abort"
)

// reservedFields are assigned by storage and dropped from client input.
var reservedFields = []string{"id", "_id", "__v", "createdAt", "updatedAt"}

// legacyAliases maps keys sent by older clients to the current field name.
var legacyAliases = map[string]string{
	"Customer": "customer",
}

// Normalizer turns a loosely typed payload into a storable Inspection.
// It has no side effects; the clock is injected so results are reproducible.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize coerces every known field, fills defaults and derives
// inspectionStatus, year and month. Unknown keys are ignored.
func (n *Normalizer) Normalize(in common.Fields) (*gormModels.Inspection, error) {
	f := prepareFields(in)
	rec := &gormModels.Inspection{}

	if err := decodeInto(rec, f); err != nil {
		return nil, err
	}
	if rec.InspectionStatus == "" {
		rec.InspectionStatus = deriveStatusFrom(f, rec)
	}

	date, ok := f.Get("inspectionDate").Time()
	if !ok {
		date = n.now().UTC()
	}
	rec.InspectionDate = date

	year, ok, err := f.Get("year").Int()
	if err != nil {
		return nil, &ValidationError{Field: "year", Message: err.Error()}
	}
	if !ok {
		year = date.Year()
	}
	rec.Year = year

	month, err := monthName(f.Get("month"))
	if err != nil {
		return nil, err
	}
	if month == "" {
		month = date.Month().String()
	}
	rec.Month = month

	return rec, nil
}

// DeriveStatus picks the first of pass, fail, pending that equals 1 and
// falls back to Abort.
func DeriveStatus(pass, fail, pending float64) string {
	switch {
	case pass == 1:
		return StatusPass
	case fail == 1:
		return StatusFail
	case pending == 1:
		return StatusPending
	default:
		return StatusAbort
	}
}

func prepareFields(in common.Fields) common.Fields {
	f := in.Without(reservedFields...)
	for legacy, current := range legacyAliases {
		if v, ok := f[legacy]; ok {
			if !f.Has(current) {
				f[current] = v
			}
			delete(f, legacy)
		}
	}
	return f
}

// dateFields are set by the date rules instead of being decoded directly.
var dateFields = []string{"inspectionDate", "year", "month"}

// decodeInto coerces every key present in f onto rec; absent fields keep
// their current value.
func decodeInto(rec *gormModels.Inspection, f common.Fields) error {
	if err := f.Decode(rec, dateFields...); err != nil {
		var decErr *common.DecodeError
		if errors.As(err, &decErr) {
			return &ValidationError{Field: decErr.Key, Message: decErr.Err.Error()}
		}
		return err
	}
	return nil
}

// deriveStatusFrom compares the numbers as sent, before counts are rounded,
// so 0.6 is not a pass. Keys not sent fall back to the values on rec.
func deriveStatusFrom(f common.Fields, rec *gormModels.Inspection) string {
	sent := func(key string, current int) float64 {
		if !f.Has(key) {
			return float64(current)
		}
		n, _ := f.Get(key).Number()
		return n
	}
	return DeriveStatus(sent("pass", rec.Pass), sent("fail", rec.Fail), sent("pending", rec.Pending))
}

// monthName maps a month number 1-12 or an English name or abbreviation to
// the full name. Anything else is kept as sent; blank input yields "".
func monthName(v common.Value) (string, error) {
	if v.IsBlank() {
		return "", nil
	}
	if n, ok := v.Number(); ok && v.Kind() != common.KindBool {
		if n >= 1 && n <= 12 && n == float64(int(n)) {
			return time.Month(int(n)).String(), nil
		}
	}
	s, err := v.Text()
	if err != nil {
		return "", &ValidationError{Field: "month", Message: err.Error()}
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return name, nil
		}
	}
	return s, nil
}
