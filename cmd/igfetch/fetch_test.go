package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResult(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	return result
}

func TestRunFetchMissingURL(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{}},
		{"blank argument", []string{"   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := runFetch(tt.args, &buf)

			assert.Equal(t, 1, code)

			result := decodeResult(t, &buf)
			assert.Equal(t, false, result["success"])
			assert.Equal(t, "URL não fornecida", result["error"])
			assert.NotContains(t, result, "post")
		})
	}
}

func TestRunFetchInvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"not instagram", "https://example.com/p/ABC123/"},
		{"profile URL", "https://www.instagram.com/someuser/"},
		{"stories URL", "https://www.instagram.com/stories/someuser/123/"},
		{"not a URL", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := runFetch([]string{tt.url}, &buf)

			assert.Equal(t, 1, code)

			result := decodeResult(t, &buf)
			assert.Equal(t, false, result["success"])
			assert.Equal(t, "URL inválida do Instagram", result["error"])
		})
	}
}

func TestRunFetchEnvelopeIsSingleLine(t *testing.T) {
	var buf bytes.Buffer
	runFetch(nil, &buf)

	out := buf.String()
	assert.Equal(t, byte('\n'), out[len(out)-1])
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestCommandLineFlags(t *testing.T) {
	timeoutSeconds = 45
	keepFiles = true
	logLevel = "debug"
	defer func() {
		timeoutSeconds = 0
		keepFiles = false
		logLevel = ""
	}()

	flags := commandLineFlags()
	assert.Equal(t, 45, flags["timeout"])
	assert.Equal(t, true, flags["keep-files"])
	assert.Equal(t, "debug", flags["log-level"])
}

func TestCommandLineFlagsDefaultsAreOmitted(t *testing.T) {
	flags := commandLineFlags()
	assert.Empty(t, flags)
}
