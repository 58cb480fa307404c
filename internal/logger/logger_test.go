package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("prod writes json at info", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, EnvProd)

		log.Debug("hidden")
		log.Info("visible", "id", 3)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "visible", entry["msg"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("local writes text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, EnvLocal).Debug("details")

		assert.Contains(t, buf.String(), "msg=details")
	})

	t.Run("unknown env falls back to local", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, "staging").Debug("details")

		assert.Contains(t, buf.String(), "level=DEBUG")
	})
}
