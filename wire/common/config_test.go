package common

import (
	"strings"
	"testing"

	"github.com/hengadev/errsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		LogLevel:    "info",
		Serializer:  "binary",
		BufferLimit: DefaultBufferLimit,
		Output:      "text",
		Workers:     4,
	}
}

func TestConfigValidate(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.Validate())

	c = Config{LogLevel: "loud", Serializer: "xml", Output: "html"}
	err := c.Validate()
	require.Error(t, err)

	errs, ok := err.(errsx.Map)
	require.True(t, ok, "expected error to be of type errsx.Map")
	assert.Len(t, errs, 5)
	for _, key := range []string{"log-level", "serializer", "output", "buffer-limit", "workers"} {
		assert.Contains(t, errs, key)
	}
}

func TestConfigString(t *testing.T) {
	c := validConfig()
	c.SchemaFiles = []string{"types.yaml"}
	c.Definitions = map[string]string{"point": "record{x: i32, y: i32}", "id": "u64"}

	s := c.String()
	assert.Contains(t, s, "GENERAL")
	assert.Contains(t, s, "  Serializer            : binary\n")
	assert.Contains(t, s, "SCHEMA FILES")
	assert.Contains(t, s, "  0                     : types.yaml\n")
	assert.Less(t, strings.Index(s, "  id "), strings.Index(s, "  point "))
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		_, err := ParseLogLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}
