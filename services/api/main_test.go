package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootLogger(t *testing.T) {
	var buf bytes.Buffer
	l := bootLogger(&buf)
	l.Error().Err(errors.New("boom")).Msg("startup failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "startup failed", entry["message"])
	assert.Contains(t, entry, "time")
}
