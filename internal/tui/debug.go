package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/lorastack/internal/slot"
)

// DebugLogPath is where --debug writes its event log, in the working directory.
const DebugLogPath = "lorastack-debug.log"

// eventLog writes one JSON object per line: a sequence number, a wall-clock
// timestamp, the event name and its fields.
type eventLog struct {
	mu  sync.Mutex
	c   io.Closer
	enc *json.Encoder
	seq int
	now func() time.Time
}

type logEntry struct {
	Seq    int            `json:"seq"`
	TS     string         `json:"ts"`
	Event  string         `json:"event"`
	Fields map[string]any `json:"fields,omitempty"`
}

// debugLog is nil unless --debug is set.
var debugLog *eventLog

func newEventLog(w io.Writer) *eventLog {
	l := &eventLog{enc: json.NewEncoder(w), now: time.Now}
	if c, ok := w.(io.Closer); ok {
		l.c = c
	}
	return l
}

// InitDebugLogger opens DebugLogPath when enabled. A disabled logger drops
// every event.
func InitDebugLogger(enabled bool) error {
	debugLog = nil
	if !enabled {
		return nil
	}
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	debugLog = newEventLog(f)
	debugLog.log("DEBUG_START", map[string]any{"log_file": DebugLogPath})
	return nil
}

// CloseDebugLogger flushes and closes the debug log.
func CloseDebugLogger() {
	if debugLog == nil {
		return
	}
	debugLog.log("DEBUG_END", nil)
	if debugLog.c != nil {
		_ = debugLog.c.Close()
	}
	debugLog = nil
}

func (l *eventLog) log(event string, fields map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	_ = l.enc.Encode(logEntry{
		Seq:    l.seq,
		TS:     l.now().Format("15:04:05.000"),
		Event:  event,
		Fields: fields,
	})
}

func debugEnabled() bool {
	return debugLog != nil
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if !debugEnabled() {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key":  msg.String(),
		"type": fmt.Sprintf("%T", msg.Type),
	})
}

// LogMouse logs a mouse event. Motion without a pressed button is skipped.
func LogMouse(msg tea.MouseMsg) {
	if !debugEnabled() {
		return
	}
	if msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonNone {
		return
	}
	debugLog.log("MOUSE", map[string]any{
		"x":      msg.X,
		"y":      msg.Y,
		"action": msg.Action.String(),
		"button": msg.Button.String(),
	})
}

// LogController is the trace sink of the interaction controller.
func LogController(event string, data map[string]any) {
	if !debugEnabled() {
		return
	}
	debugLog.log("CONTROLLER."+event, data)
}

// LogStoreChange logs a slot store change notification.
func LogStoreChange(ch slot.Change) {
	if !debugEnabled() {
		return
	}
	data := map[string]any{
		"kind":    ch.Kind.String(),
		"indices": ch.Indices,
		"all":     ch.All,
	}
	if len(ch.Removed) > 0 {
		data["removed"] = ch.Removed
	}
	if ch.List != nil {
		data["len"] = ch.List.Len()
		data["mode"] = ch.List.Mode().String()
	}
	debugLog.log("STORE_CHANGE", data)
}

// LogPopup logs a popup opening or closing.
func LogPopup(kind popupKind, action string) {
	if !debugEnabled() {
		return
	}
	debugLog.log("POPUP", map[string]any{
		"kind":   kind.String(),
		"action": action,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if !debugEnabled() {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}
