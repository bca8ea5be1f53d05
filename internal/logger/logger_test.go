package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("cashier-backend", &buf)

	l.Info("order_created", "Sipariş açıldı", map[string]any{"order_id": 12})
	l.Error("integrity", "Defter tutarsız", errors.New("sum mismatch"), nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info LogEntry
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info.Level)
	assert.Equal(t, "cashier-backend", info.Service)
	assert.Equal(t, "order_created", info.Action)
	assert.EqualValues(t, 12, info.Fields["order_id"])
	assert.Nil(t, info.Error)

	var failed LogEntry
	require.NoError(t, json.Unmarshal(lines[1], &failed))
	assert.Equal(t, "ERROR", failed.Level)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "sum mismatch", failed.Error.Msg)
	assert.NotEmpty(t, failed.Error.Stack)
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Warn("x", "y", nil) })
}
