package helpers

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_RoundTrip(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, 32)

	hash := HashPassword("password123", salt)
	assert.Len(t, hash, 64)
	assert.True(t, CompareHashAndPassword(hash, salt, "password123"))
	assert.False(t, CompareHashAndPassword(hash, salt, "password124"))
	assert.False(t, CompareHashAndPassword(hash, "other", "password123"))
}

func TestLogStatement_OmitsArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("test", "production", &buf)
	buf.Reset()

	LogStatement(logger, "target", "UPDATE users\n\t\tSET about_me = $1\n\t\tWHERE username = $2", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "UPDATE users SET about_me = $1 WHERE username = $2", entry["msg"])
	assert.Equal(t, "target", entry["store"])
	assert.EqualValues(t, 2, entry["args"])
}

func TestLogStatement_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { LogStatement(nil, "source", "SELECT 1", 0) })
}
