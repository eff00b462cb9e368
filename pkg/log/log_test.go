package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNonTerminalWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, Output: &buf})
	defer Init(Config{Level: InfoLevel, Output: &bytes.Buffer{}})

	logger := WithKind("draft", "task")
	logger.Debug().Str("field", "script").Msg("set")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "draft", entry["component"])
	assert.Equal(t, "task", entry["kind"])
	assert.Equal(t, "set", entry["message"])
	assert.Equal(t, "debug", entry["level"])
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		level Level
		want  zerolog.Level
	}{
		{DebugLevel, zerolog.DebugLevel},
		{InfoLevel, zerolog.InfoLevel},
		{WarnLevel, zerolog.WarnLevel},
		{ErrorLevel, zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			Init(Config{Level: tt.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
	Init(Config{Level: InfoLevel, Output: &bytes.Buffer{}})
}

func TestInfoFilteredBelowWarn(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, Output: &buf})
	defer Init(Config{Level: InfoLevel, Output: &bytes.Buffer{}})

	logger := WithComponent("manager")
	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"component":"manager"`)
}
