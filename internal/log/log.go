package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxRecords is the number of records kept for the log view.
const MaxRecords = 20

// records is shared by a TUIHandler and the handlers derived from it.
type records struct {
	mu   sync.Mutex
	ch   chan<- tea.Msg
	logs []slog.Record
}

// TUIHandler is a slog.Handler that keeps the most recent records and sends
// them to a tea.Program.
type TUIHandler struct {
	slog.Handler
	*records
}

// NewTUIHandler creates a new TUIHandler.
func NewTUIHandler(handler slog.Handler, ch chan<- tea.Msg) *TUIHandler {
	return &TUIHandler{
		Handler: handler,
		records: &records{ch: ch},
	}
}

// Handle stores the record, sends it to the TUI and passes it on.
func (h *TUIHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	h.logs = append(h.logs, r.Clone())
	if len(h.logs) > MaxRecords {
		h.logs = h.logs[1:]
	}
	ch := h.ch
	h.mu.Unlock()

	if ch != nil {
		// Dropped when the program is not reading.
		select {
		case ch <- LogMsg(r):
		default:
		}
	}

	if !h.Handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

// Enabled accepts every level. The log view keeps records the wrapped
// handler discards.
func (h *TUIHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *TUIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUIHandler{Handler: h.Handler.WithAttrs(attrs), records: h.records}
}

func (h *TUIHandler) WithGroup(name string) slog.Handler {
	return &TUIHandler{Handler: h.Handler.WithGroup(name), records: h.records}
}

// Logs returns the stored log messages, oldest first.
func (h *TUIHandler) Logs() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.logs)
}

// LogMsg is a tea.Msg that represents a log message.
type LogMsg slog.Record

// SetOutput sets the output channel for the handler.
func (h *TUIHandler) SetOutput(ch chan<- tea.Msg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ch = ch
}

var defaultHandler = NewTUIHandler(slog.NewTextHandler(io.Discard, nil), nil)

// Init installs a TUIHandler wrapping handler as the default logger.
func Init(handler slog.Handler) {
	defaultHandler = NewTUIHandler(handler, nil)
	slog.SetDefault(slog.New(defaultHandler))
}

// SetOutput sets the output channel for the default logger.
func SetOutput(ch chan<- tea.Msg) {
	defaultHandler.SetOutput(ch)
}

// Logs returns the stored log messages from the default logger.
func Logs() []slog.Record {
	return defaultHandler.Logs()
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %q", s)
	}
	return level, nil
}

// NewTextHandler returns a text handler writing records at or above level.
func NewTextHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// OpenFile truncates and opens a log file, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
