package bigquery

import (
	"math/big"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/tabulaflow/tabula/pkg/schema"
)

// SchemaToBigQuery maps a declared record schema to BigQuery's native table
// schema.
func SchemaToBigQuery(s *schema.Schema) bigquery.Schema {
	var bqSchema bigquery.Schema

	for _, field := range s.Fields() {
		bqField := &bigquery.FieldSchema{
			Name:     field.Name,
			Type:     mapFieldType(field.Type),
			Required: !field.Nullable,
		}

		if field.Description != "" {
			bqField.Description = field.Description
		}

		bqSchema = append(bqSchema, bqField)
	}

	return bqSchema
}

func mapFieldType(ft schema.FieldType) bigquery.FieldType {
	switch ft {
	case schema.FieldTypeString:
		return bigquery.StringFieldType
	case schema.FieldTypeInt:
		return bigquery.IntegerFieldType
	case schema.FieldTypeFloat:
		return bigquery.FloatFieldType
	case schema.FieldTypeBool:
		return bigquery.BooleanFieldType
	case schema.FieldTypeTimestamp:
		return bigquery.TimestampFieldType
	case schema.FieldTypeDate:
		return bigquery.DateFieldType
	case schema.FieldTypeTime:
		return bigquery.TimeFieldType
	case schema.FieldTypeBinary:
		return bigquery.BytesFieldType
	case schema.FieldTypeJSON:
		return bigquery.JSONFieldType
	default:
		return bigquery.StringFieldType
	}
}

// rowToRaw converts a BigQuery result row into the neutral raw-row form the
// core's row mapper expects. Service-specific value types are normalized to
// plain Go values before coercion.
func rowToRaw(row map[string]bigquery.Value) map[string]interface{} {
	raw := make(map[string]interface{}, len(row))
	for k, v := range row {
		raw[k] = normalizeValue(v)
	}
	return raw
}

func normalizeValue(v bigquery.Value) interface{} {
	switch x := v.(type) {
	case civil.Date:
		return x.String()
	case civil.Time:
		return x.String()
	case civil.DateTime:
		return x.String()
	case *big.Rat:
		f, _ := x.Float64()
		return f
	case []bigquery.Value:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]bigquery.Value:
		return rowToRaw(x)
	default:
		return v
	}
}
