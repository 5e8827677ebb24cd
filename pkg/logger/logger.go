package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl        zerolog.Logger
	fields    []Field
	collector *LogCollector
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	output, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = timeFormat
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat}
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()
	return &Logger{zl: zl}, nil
}

func openOutput(dest string) (io.Writer, error) {
	switch dest {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

// NewWithWriter builds a JSON logger writing to w, mostly for tests.
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger that adds fields to every entry, including
// entries handed to the shared collector.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		key, value := f.GetKeyValue()
		ctx = ctx.Interface(key, value)
	}
	inherited := make([]Field, 0, len(l.fields)+len(fields))
	inherited = append(append(inherited, l.fields...), fields...)
	return &Logger{zl: ctx.Logger(), fields: inherited, collector: l.collector}
}

func (l *Logger) Debug(msg string, fields ...Field) { emit(l.zl.Debug(), msg, fields) }

func (l *Logger) Info(msg string, fields ...Field) { emit(l.zl.Info(), msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) { emit(l.zl.Warn(), msg, fields) }

// Error logs and, when a collector is attached, queues the entry for the
// aggregated error stream.
func (l *Logger) Error(msg string, fields ...Field) {
	emit(l.zl.Error(), msg, fields)
	l.collect("error", msg, fields)
}

func emit(event *zerolog.Event, msg string, fields []Field) {
	if event == nil {
		return
	}
	for _, f := range fields {
		f.AddTo(event)
	}
	event.Msg(msg)
}

func (l *Logger) collect(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}

	// collect -> Error -> caller
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		dir, name := filepath.Split(file)
		caller = fmt.Sprintf("%s:%d", filepath.Join(filepath.Base(dir), name), line)
	}

	values := make(map[string]interface{}, len(l.fields)+len(fields))
	for _, f := range append(append([]Field(nil), l.fields...), fields...) {
		key, value := f.GetKeyValue()
		values[key] = value
	}
	l.collector.AddLog(level, msg, values, caller)
}

// AddCollector attaches a collector, replacing and flushing any previous one.
func (l *Logger) AddCollector(config *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(config)
}

// RemoveCollector flushes pending entries and detaches the collector.
func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

// Field is one structured key/value pair.
type Field interface {
	AddTo(event *zerolog.Event)
	GetKeyValue() (string, interface{})
}

type field struct {
	key   string
	value interface{}
	add   func(e *zerolog.Event, key string)
}

func (f field) AddTo(e *zerolog.Event) { f.add(e, f.key) }

func (f field) GetKeyValue() (string, interface{}) { return f.key, f.value }

func String(key, value string) Field {
	return field{key, value, func(e *zerolog.Event, k string) { e.Str(k, value) }}
}

func Int(key string, value int) Field {
	return field{key, value, func(e *zerolog.Event, k string) { e.Int(k, value) }}
}

func Float64(key string, value float64) Field {
	return field{key, value, func(e *zerolog.Event, k string) { e.Float64(k, value) }}
}

// Error logs err under "error"; the collector keeps its message only.
func Error(err error) Field {
	var msg interface{}
	if err != nil {
		msg = err.Error()
	}
	return field{"error", msg, func(e *zerolog.Event, k string) { e.AnErr(k, err) }}
}

func Any(key string, value interface{}) Field {
	return field{key, value, func(e *zerolog.Event, k string) { e.Interface(k, value) }}
}

// Duration logs milliseconds.
func Duration(key string, value time.Duration) Field {
	ms := value.Milliseconds()
	return field{key, ms, func(e *zerolog.Event, k string) { e.Int64(k, ms) }}
}

func Strings(key string, value []string) Field {
	return String(key, strings.Join(value, ", "))
}

// Symbol tags an entry with the ticker it concerns.
func Symbol(symbol string) Field {
	return String("symbol", symbol)
}
