package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"", slog.LevelInfo, true},
		{"DEBUG", slog.LevelDebug, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, err == nil, tt.in)
	}
}

func TestNewJSONWithComponent(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Options{Level: "debug", Format: "json", Output: &out})
	require.NoError(t, err)

	Component(l, "cache").Debug("hit", FieldPath, "chara/xls/charamake/human.cmp")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "cache", rec[FieldComponent])
	assert.Equal(t, "hit", rec["msg"])
}

func TestLevelFilters(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Options{Level: "warn", Output: &out})
	require.NoError(t, err)
	l.Info("dropped")
	assert.Zero(t, out.Len())
	l.Warn("kept")
	assert.Contains(t, out.String(), "kept")

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestInitReplacesGlobal(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev })

	var out bytes.Buffer
	require.NoError(t, Init(Options{Output: &out}))
	Component(nil, "editor").Info("applied")
	assert.Contains(t, out.String(), "component=editor")
}
