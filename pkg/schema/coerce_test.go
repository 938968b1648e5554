package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coerceSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New(
		Field{Name: "id", Type: FieldTypeInt},
		Field{Name: "score", Type: FieldTypeFloat},
		Field{Name: "name", Type: FieldTypeString, Nullable: true},
		Field{Name: "active", Type: FieldTypeBool},
		Field{Name: "created_at", Type: FieldTypeTimestamp},
	)
	require.NoError(t, err)
	return s
}

func TestRowToRecordCoercesTypes(t *testing.T) {
	raw := map[string]interface{}{
		"id":         "7",
		"score":      int64(3),
		"name":       []byte("widget"),
		"active":     "true",
		"created_at": "2024-06-01T12:30:00Z",
	}

	rec, err := RowToRecord(raw, coerceSchema(t), CoerceOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.Data["id"])
	assert.Equal(t, 3.0, rec.Data["score"])
	assert.Equal(t, "widget", rec.Data["name"])
	assert.Equal(t, true, rec.Data["active"])
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC), rec.Data["created_at"])
}

func TestRowToRecordNullableField(t *testing.T) {
	raw := map[string]interface{}{
		"id":         int64(1),
		"score":      1.5,
		"active":     true,
		"created_at": time.Now(),
	}

	rec, err := RowToRecord(raw, coerceSchema(t), CoerceOptions{})
	require.NoError(t, err)
	assert.Nil(t, rec.Data["name"])
}

func TestRowToRecordMissingRequiredField(t *testing.T) {
	raw := map[string]interface{}{
		"score":      1.5,
		"active":     true,
		"created_at": time.Now(),
	}

	_, err := RowToRecord(raw, coerceSchema(t), CoerceOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
}

func TestRowToRecordDropsUndeclaredFields(t *testing.T) {
	raw := map[string]interface{}{
		"id":         int64(1),
		"score":      1.0,
		"active":     false,
		"created_at": time.Now(),
		"extra":      "ignored",
	}

	rec, err := RowToRecord(raw, coerceSchema(t), CoerceOptions{})
	require.NoError(t, err)
	_, present := rec.Data["extra"]
	assert.False(t, present)
}

func TestRowToRecordTruncatesTimestamps(t *testing.T) {
	precise := time.Date(2024, 6, 1, 12, 30, 0, 123456789, time.UTC)
	raw := map[string]interface{}{
		"id":         int64(1),
		"score":      1.0,
		"active":     true,
		"created_at": precise,
	}

	rec, err := RowToRecord(raw, coerceSchema(t), CoerceOptions{TruncateTimestamps: true})
	require.NoError(t, err)
	assert.Equal(t, precise.Truncate(time.Millisecond), rec.Data["created_at"])

	rec, err = RowToRecord(raw, coerceSchema(t), CoerceOptions{})
	require.NoError(t, err)
	assert.Equal(t, precise, rec.Data["created_at"])
}

func TestRowToRecordRejectsFractionalInt(t *testing.T) {
	raw := map[string]interface{}{
		"id":         1.5,
		"score":      1.0,
		"active":     true,
		"created_at": time.Now(),
	}

	_, err := RowToRecord(raw, coerceSchema(t), CoerceOptions{})
	assert.Error(t, err)
}

func TestCoerceDateAndTime(t *testing.T) {
	s, err := New(
		Field{Name: "day", Type: FieldTypeDate},
		Field{Name: "at", Type: FieldTypeTime},
	)
	require.NoError(t, err)

	rec, err := RowToRecord(map[string]interface{}{
		"day": "2024-06-01",
		"at":  "13:45:00",
	}, s, CoerceOptions{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), rec.Data["day"])
	assert.Equal(t, 13, rec.Data["at"].(time.Time).Hour())
}

func TestCoerceJSONField(t *testing.T) {
	s, err := New(Field{Name: "payload", Type: FieldTypeJSON})
	require.NoError(t, err)

	rec, err := RowToRecord(map[string]interface{}{
		"payload": `{"a": 1, "b": [true, false]}`,
	}, s, CoerceOptions{})
	require.NoError(t, err)

	payload, ok := rec.Data["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, payload, "a")

	_, err = RowToRecord(map[string]interface{}{"payload": "{not json"}, s, CoerceOptions{})
	assert.Error(t, err)
}

func TestCoerceBinaryField(t *testing.T) {
	s, err := New(Field{Name: "blob", Type: FieldTypeBinary})
	require.NoError(t, err)

	rec, err := RowToRecord(map[string]interface{}{"blob": "raw"}, s, CoerceOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), rec.Data["blob"])
}

func TestRecordToRowIsShallowCopy(t *testing.T) {
	s, err := New(Field{Name: "id", Type: FieldTypeInt})
	require.NoError(t, err)

	rec, err := RowToRecord(map[string]interface{}{"id": int64(5)}, s, CoerceOptions{})
	require.NoError(t, err)

	row := RecordToRow(rec)
	assert.Equal(t, int64(5), row["id"])

	row["id"] = int64(6)
	assert.Equal(t, int64(5), rec.Data["id"])
}
