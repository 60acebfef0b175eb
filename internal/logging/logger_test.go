package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRedactsSensitive(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "debug", Format: "json", Output: buf})
	logger.Debug("signed in",
		"user", "admin",
		"access_token", "eyJhbGciOi",
		"password", "admin123",
		slog.Group("request", slog.String("Authorization", "Bearer abc"), slog.String("method", "GET")),
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "admin", record["user"])
	assert.Equal(t, redactedValue, record["access_token"])
	assert.Equal(t, redactedValue, record["password"])
	request := record["request"].(map[string]any)
	assert.Equal(t, redactedValue, request["Authorization"])
	assert.Equal(t, "GET", request["method"])
}

func TestNew_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Output: buf})
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, ParseLevel(testCase.input), testCase.input)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, IsSensitiveKey("token"))
	assert.True(t, IsSensitiveKey("ClientSecret"))
	assert.False(t, IsSensitiveKey("entry"))
	assert.False(t, IsSensitiveKey("url"))
}
