package log

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUIHandlerKeepsRecentRecords(t *testing.T) {
	var buf bytes.Buffer
	h := NewTUIHandler(NewTextHandler(&buf, slog.LevelInfo), nil)
	logger := slog.New(h)

	for i := range MaxRecords + 5 {
		logger.Info(fmt.Sprintf("message %d", i))
	}

	logs := h.Logs()
	require.Len(t, logs, MaxRecords)
	assert.Equal(t, "message 5", logs[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", MaxRecords+4), logs[len(logs)-1].Message)
}

func TestTUIHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := NewTUIHandler(NewTextHandler(&buf, slog.LevelWarn), nil)
	logger := slog.New(h)

	logger.Debug("scan complete")
	logger.Warn("scan failed")

	assert.Len(t, h.Logs(), 2, "every record reaches the log view")
	assert.NotContains(t, buf.String(), "scan complete")
	assert.Contains(t, buf.String(), "scan failed")
}

func TestTUIHandlerSendsMessages(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	h := NewTUIHandler(NewTextHandler(&bytes.Buffer{}, slog.LevelInfo), nil)
	h.SetOutput(ch)
	logger := slog.New(h).With("band", "5GHz")

	logger.Info("first")
	logger.Info("second") // channel full, dropped

	msg := <-ch
	require.IsType(t, LogMsg{}, msg)
	assert.Equal(t, "first", msg.(LogMsg).Message)
	assert.Len(t, h.Logs(), 2, "derived handlers share records")
}

func TestTUIHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewTUIHandler(NewTextHandler(&buf, slog.LevelInfo), nil)
	slog.New(h).WithGroup("scan").With("band", "6GHz").Info("rated")
	assert.Contains(t, buf.String(), "scan.band=6GHz")
	require.NoError(t, h.Handle(context.Background(), slog.NewRecord(h.Logs()[0].Time, slog.LevelInfo, "again", 0)))
	assert.Len(t, h.Logs(), 2)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wifichan.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("fresh\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}

func TestDefaultLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Init(NewTextHandler(&bytes.Buffer{}, slog.LevelInfo))
	slog.Info("hello")
	logs := Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "hello", logs[0].Message)
}
