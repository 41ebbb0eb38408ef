package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueDecode(t *testing.T) {
	var v AnswerValue

	require.NoError(t, json.Unmarshal([]byte(`"hello"`), &v))
	assert.Equal(t, ValueText, v.Kind)
	assert.Equal(t, "hello", v.Text)

	require.NoError(t, json.Unmarshal([]byte(`4.5`), &v))
	assert.Equal(t, ValueNumber, v.Kind)
	assert.Equal(t, 4.5, v.Number)

	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &v))
	assert.Equal(t, ValueList, v.Kind)
	assert.Equal(t, []string{"a", "b"}, v.List)

	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.Equal(t, ValueEmpty, v.Kind)
	assert.True(t, v.IsEmpty())

	// Booleans were legal in the untyped source column; their JSON text is kept.
	require.NoError(t, json.Unmarshal([]byte(`true`), &v))
	assert.Equal(t, ValueText, v.Kind)
	assert.Equal(t, "true", v.Text)
}

func TestAnswerValueRoundTrip(t *testing.T) {
	for _, raw := range []string{`"yes"`, `3`, `["x"]`, `null`} {
		var v AnswerValue
		require.NoError(t, json.Unmarshal([]byte(raw), &v))
		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	}
}

func TestAnswerValueString(t *testing.T) {
	assert.Equal(t, "EU", TextValue("EU").String())
	assert.Equal(t, "5", NumberValue(5).String())
	assert.Equal(t, `["a","b"]`, ListValue([]string{"a", "b"}).String())
}

func TestAnswerValueIsEmpty(t *testing.T) {
	assert.True(t, TextValue("").IsEmpty())
	assert.True(t, ListValue(nil).IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty())
	assert.False(t, TextValue("x").IsEmpty())
}

func TestFieldByID(t *testing.T) {
	form := Form{
		Fields: []FieldDefinition{
			{ID: "a", Type: FieldText, Label: "A"},
			{ID: "b", Type: FieldRating, Label: "B"},
		},
	}

	field, ok := form.FieldByID("b")
	require.True(t, ok)
	assert.Equal(t, "B", field.Label)

	_, ok = form.FieldByID("missing")
	assert.False(t, ok)
}
