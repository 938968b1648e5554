package schema

import (
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/tabulaflow/tabula/pkg/errors"
	"github.com/tabulaflow/tabula/pkg/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// CoerceOptions controls how raw values are converted to schema types.
type CoerceOptions struct {
	// TruncateTimestamps truncates timestamp values to millisecond precision,
	// matching storage services that do not preserve sub-millisecond detail.
	TruncateTimestamps bool
}

// RowToRecord converts a raw external row into a schema-typed record. Every
// schema field is coerced to its declared type; a missing or nil value for a
// non-nullable field is an error. Fields present in the raw row but absent
// from the schema are dropped.
func RowToRecord(raw map[string]interface{}, s *Schema, opts CoerceOptions) (*models.Record, error) {
	if s == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "schema is required to coerce a row")
	}

	data := make(map[string]interface{}, s.Len())
	for _, f := range s.fields {
		v, present := raw[f.Name]
		if !present || v == nil {
			if !f.Nullable {
				return nil, errors.Newf(errors.ErrorTypeData, "missing value for non-nullable field %q", f.Name)
			}
			data[f.Name] = nil
			continue
		}

		coerced, err := coerceValue(v, f.Type, opts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "field "+strconv.Quote(f.Name))
		}
		data[f.Name] = coerced
	}

	return &models.Record{Data: data}, nil
}

// RecordToRow converts a record back into the raw row format handed to an
// external writer. The returned map is a shallow copy of the record payload.
func RecordToRow(r *models.Record) map[string]interface{} {
	row := make(map[string]interface{}, len(r.Data))
	for k, v := range r.Data {
		row[k] = v
	}
	return row
}

func coerceValue(v interface{}, ft FieldType, opts CoerceOptions) (interface{}, error) {
	switch ft {
	case FieldTypeString:
		return coerceString(v)
	case FieldTypeInt:
		return coerceInt(v)
	case FieldTypeFloat:
		return coerceFloat(v)
	case FieldTypeBool:
		return coerceBool(v)
	case FieldTypeTimestamp:
		t, err := coerceTimestamp(v)
		if err != nil {
			return nil, err
		}
		if opts.TruncateTimestamps {
			t = t.Truncate(time.Millisecond)
		}
		return t, nil
	case FieldTypeDate:
		return coerceWithLayout(v, dateLayout)
	case FieldTypeTime:
		return coerceWithLayout(v, timeLayout)
	case FieldTypeJSON:
		return coerceJSON(v)
	case FieldTypeBinary:
		return coerceBinary(v)
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "unsupported field type %q", ft)
	}
}

func coerceString(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int, int32, int64:
		return strconv.FormatInt(toInt64(x), 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to string", v)
	}
}

func coerceInt(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int, int32, int64:
		return toInt64(x), nil
	case uint64:
		return int64(x), nil
	case float64:
		if x != float64(int64(x)) {
			return nil, errors.Newf(errors.ErrorTypeData, "value %v is not a whole number", x)
		}
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeData, "cannot parse %q as int", x)
		}
		return n, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to int", v)
	}
}

func coerceFloat(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int, int32, int64:
		return float64(toInt64(x)), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeData, "cannot parse %q as float", x)
		}
		return f, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to float", v)
	}
}

func coerceBool(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeData, "cannot parse %q as bool", x)
		}
		return b, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to bool", v)
	}
}

func coerceTimestamp(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, errors.Newf(errors.ErrorTypeData, "cannot parse %q as timestamp", x)
		}
		return t, nil
	default:
		return time.Time{}, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to timestamp", v)
	}
}

func coerceWithLayout(v interface{}, layout string) (interface{}, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := time.Parse(layout, x)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeData, "cannot parse %q with layout %s", x, layout)
		}
		return t, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T with layout %s", v, layout)
	}
}

func coerceJSON(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case map[string]interface{}, []interface{}:
		return x, nil
	case string:
		var out interface{}
		if err := gojson.Unmarshal([]byte(x), &out); err != nil {
			return nil, errors.Newf(errors.ErrorTypeData, "invalid JSON value: %v", err)
		}
		return out, nil
	case []byte:
		var out interface{}
		if err := gojson.Unmarshal(x, &out); err != nil {
			return nil, errors.Newf(errors.ErrorTypeData, "invalid JSON value: %v", err)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to json", v)
	}
}

func coerceBinary(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "cannot coerce %T to binary", v)
	}
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}
