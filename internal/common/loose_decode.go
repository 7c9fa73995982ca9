package common

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeError names the key whose value could not be decoded.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// looseValueHook coerces a Value by the kind of the target field: ints take
// Count, floats take Metric and strings take Text.
func looseValueHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	v, ok := data.(Value)
	if !ok {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int:
		return v.Count(), nil
	case reflect.Float64:
		return v.Metric(), nil
	case reflect.String:
		return v.Text()
	default:
		return nil, &CastError{From: v.Kind(), To: to.String()}
	}
}

// Decode copies f onto the json-tagged fields of dst, a struct pointer. Keys
// must match a json name exactly; other keys and the skip keys are ignored.
// Fields with no key keep their current value. Keys are decoded in sorted
// order so the reported failure is stable.
func (f Fields) Decode(dst any, skip ...string) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       looseValueHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		MatchName:        func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:           dst,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}

	for _, key := range slices.Sorted(maps.Keys(f)) {
		if slices.Contains(skip, key) {
			continue
		}
		if err := dec.Decode(map[string]Value{key: f[key]}); err != nil {
			var castErr *CastError
			if errors.As(err, &castErr) {
				err = castErr
			}
			return &DecodeError{Key: key, Err: err}
		}
	}
	return nil
}
