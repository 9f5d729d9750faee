package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelPath = "test.onnx"

func validEntries() map[string]string {
	return map[string]string{
		ProcessUnitsKey:                    `[{"type":"normalization","mean":[127.5],"std":[127.5]}]`,
		AssociatedFilePrefix + "labels.txt": "fish\nshark\ncrab\n",
	}
}

func TestParse_ValidMetadata(t *testing.T) {
	md, err := Parse(modelPath, validEntries())
	require.NoError(t, err)

	assert.Equal(t, float32(127.5), md.Mean)
	assert.Equal(t, float32(127.5), md.Std)
	assert.Equal(t, []string{"fish", "shark", "crab"}, md.Labels)
}

func TestParse_MissingProcessUnits(t *testing.T) {
	entries := validEntries()
	delete(entries, ProcessUnitsKey)

	_, err := Parse(modelPath, entries)
	require.Error(t, err)

	var invalid *InvalidModelError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, modelPath, invalid.Path)
	assert.Contains(t, invalid.Reason, "process_units")
}

func TestParse_MalformedProcessUnits(t *testing.T) {
	entries := validEntries()
	entries[ProcessUnitsKey] = "{not json"

	_, err := Parse(modelPath, entries)
	var invalid *InvalidModelError
	require.ErrorAs(t, err, &invalid)
}

func TestParse_NoNormalizationUnitDefaults(t *testing.T) {
	// Quantized models often carry only a dequantize unit; absent
	// normalization falls back to mean=0, std=1.
	entries := validEntries()
	entries[ProcessUnitsKey] = `[{"type":"dequantize"}]`

	md, err := Parse(modelPath, entries)
	require.NoError(t, err)
	assert.Equal(t, float32(0), md.Mean)
	assert.Equal(t, float32(1), md.Std)
}

func TestParse_FirstNormalizationUnitWins(t *testing.T) {
	entries := validEntries()
	entries[ProcessUnitsKey] = `[
		{"type":"normalization","mean":[10],"std":[20]},
		{"type":"normalization","mean":[99],"std":[99]}
	]`

	md, err := Parse(modelPath, entries)
	require.NoError(t, err)
	assert.Equal(t, float32(10), md.Mean)
	assert.Equal(t, float32(20), md.Std)
}

func TestParse_NoAssociatedFile(t *testing.T) {
	entries := map[string]string{
		ProcessUnitsKey: `[]`,
	}
	_, err := Parse(modelPath, entries)
	var invalid *InvalidModelError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "label file")
}

func TestParse_FirstSortedFileKeyWins(t *testing.T) {
	entries := map[string]string{
		ProcessUnitsKey:                 `[]`,
		AssociatedFilePrefix + "b.txt":  "wrong\n",
		AssociatedFilePrefix + "a.txt":  "fish\nshark\n",
	}
	md, err := Parse(modelPath, entries)
	require.NoError(t, err)
	assert.Equal(t, []string{"fish", "shark"}, md.Labels)
}

func TestParse_EmptyLabelFile(t *testing.T) {
	entries := validEntries()
	entries[AssociatedFilePrefix+"labels.txt"] = "\n\n\n"

	_, err := Parse(modelPath, entries)
	var invalid *InvalidModelError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "no labels")
}

func TestSplitLabelFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain", "fish\nshark", []string{"fish", "shark"}},
		{"trailing newline", "fish\nshark\n", []string{"fish", "shark"}},
		{"crlf endings", "fish\r\nshark\r\n", []string{"fish", "shark"}},
		{"empty lines dropped", "fish\n\nshark\n", []string{"fish", "shark"}},
		{"bom stripped", "\uFEFFfish\nshark", []string{"fish", "shark"}},
		{"empty content", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLabelFile(tt.content))
		})
	}
}

func TestInvalidModelError_Unwrap(t *testing.T) {
	inner := assert.AnError
	err := &InvalidModelError{Path: "m.onnx", Reason: "broken", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "m.onnx")
	assert.Contains(t, err.Error(), "broken")
}
