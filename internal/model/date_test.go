package model_test

import (
	"encoding/json"
	"testing"

	"taskflow/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_EmptyAndNullDecodeToZero(t *testing.T) {
	var d model.Date

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestDate_WireFormat(t *testing.T) {
	var d model.Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01"`), &d))
	assert.Equal(t, "2026-09-01", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-01"`, string(out))
}

func TestDate_RejectsOtherLayouts(t *testing.T) {
	var d model.Date
	assert.Error(t, json.Unmarshal([]byte(`"09/01/2026"`), &d))
}
