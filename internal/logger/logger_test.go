package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Out: &buf})
	require.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.Debug("hidden")
	l.WithField("stage", "lighting").Info("done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "done", entry["msg"])
	require.Equal(t, "lighting", entry["stage"])
}

func TestNewDebugText(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Debug: true, Out: &buf})
	require.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Debug("visible")
	require.Contains(t, buf.String(), "msg=visible")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	require.False(t, l.IsLevelEnabled(logrus.ErrorLevel))
}
