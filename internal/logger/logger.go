package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"
)

type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Service   string         `json:"service"`
	Action    string         `json:"action"`
	Message   string         `json:"message"`
	Hostname  string         `json:"hostname"`
	Fields    map[string]any `json:"fields,omitempty"`
	Error     *ErrorEntry    `json:"error,omitempty"`
}

type ErrorEntry struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack,omitempty"`
}

// Logger: JSON satırları yazan basit logger
type Logger struct {
	service  string
	hostname string

	mu  sync.Mutex
	out io.Writer
}

func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout)
}

func NewWithWriter(service string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()
	return &Logger{service: service, hostname: hostname, out: w}
}

// Discard: testler için
func Discard() *Logger { return NewWithWriter("test", io.Discard) }

func (l *Logger) Info(action, message string, fields map[string]any) {
	l.log("INFO", action, message, fields, nil)
}

func (l *Logger) Warn(action, message string, fields map[string]any) {
	l.log("WARN", action, message, fields, nil)
}

// Error: stack ile birlikte yazar
func (l *Logger) Error(action, message string, err error, fields map[string]any) {
	entry := &ErrorEntry{}
	if err != nil {
		buf := make([]byte, 2048)
		n := runtime.Stack(buf, false)
		entry.Msg = err.Error()
		entry.Stack = string(buf[:n])
	}
	l.log("ERROR", action, message, fields, entry)
}

func (l *Logger) log(level, action, message string, fields map[string]any, errorEntry *ErrorEntry) {
	if l == nil {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.service,
		Action:    action,
		Message:   message,
		Hostname:  l.hostname,
		Fields:    fields,
		Error:     errorEntry,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","service":%q,"action":"log_error","message":%q}`, l.service, err.Error()))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, string(data))
}
