package codec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KeepsNumbersVerbatim(t *testing.T) {
	t.Parallel()

	var out map[string]any
	require.NoError(t, Decode([]byte(`{"numerical_id": 9007199254740993, "price": 1.50}`), &out))

	assert.Equal(t, json.Number("9007199254740993"), out["numerical_id"])
	assert.Equal(t, json.Number("1.50"), out["price"])
}

func TestCanonical_SortsKeys(t *testing.T) {
	t.Parallel()

	raw, err := Canonical(map[string]any{"b": 1, "a": []any{"x", nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x",null],"b":1}`, string(raw))
}

func TestWriteIndented(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteIndented(&buf, []any{map[string]any{"id": "f1"}}))
	assert.Equal(t, "[\n  {\n    \"id\": \"f1\"\n  }\n]\n", buf.String())
}
