// Package log is the leveled, structured diagnostic logger for fls.
// Records go to standard error by default so they never mix with the
// listing written to standard output.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"fls/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a record.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus entry with the level and caller handling fls wants.
type Logger struct {
	entry *logrus.Entry
	level logrus.Level
	file  *os.File
}

type options struct {
	out   io.Writer
	json  bool
	file  string
	level logrus.Level
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per record.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends every record to the file at path.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level by name. Unknown names are ignored.
func WithLevel(name string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(name); err == nil {
			o.level = lvl
		}
	}
}

// ValidLevel reports whether name is a level WithLevel accepts.
func ValidLevel(name string) bool {
	_, err := logrus.ParseLevel(name)
	return err == nil
}

// NewLogger creates a logger. Without options it writes text records at
// info level to standard error.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stderr, level: logrus.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	// Filtering happens in Logger so SetDebug can apply to existing loggers.
	base.SetLevel(logrus.TraceLevel)

	l := &Logger{level: o.level}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fls: cannot open log file %s: %v\n", o.file, err)
		} else {
			l.file = f
			out = io.MultiWriter(out, f)
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			QuoteEmptyFields: true,
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the package-level logger's file, if any.
func Close() error {
	return logger.Close()
}

// SetDebug forces debug records on or off for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), level: l.level, file: l.file}
}

// WithContext attaches ctx to records. Hooks may read it; formatters ignore it.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), level: l.level, file: l.file}
}

func (l *Logger) enabled(level logrus.Level) bool {
	if level == logrus.DebugLevel && isDebug.Load() {
		return true
	}
	return level <= l.level
}

// output writes one record. depth is the number of frames between the
// user's call site and output.
func (l *Logger) output(depth int, level logrus.Level, msg string) {
	if !l.enabled(level) {
		return
	}
	entry := l.entry
	if _, file, line, ok := runtime.Caller(depth); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func (l *Logger) Debug(msg string) { l.output(2, logrus.DebugLevel, msg) }
func (l *Logger) Info(msg string) { l.output(2, logrus.InfoLevel, msg) }
func (l *Logger) Warn(msg string) { l.output(2, logrus.WarnLevel, msg) }
func (l *Logger) Error(msg string) { l.output(2, logrus.ErrorLevel, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.output(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.output(2, logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.output(2, logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.output(2, logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs on the package-level logger.
func Debug(msg string) { logger.output(2, logrus.DebugLevel, msg) }

// Debugf logs a formatted message on the package-level logger.
func Debugf(format string, args ...interface{}) {
	logger.output(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
}

func Info(msg string) { logger.output(2, logrus.InfoLevel, msg) }

func Infof(format string, args ...interface{}) {
	logger.output(2, logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func Warn(msg string) { logger.output(2, logrus.WarnLevel, msg) }

func Warnf(format string, args ...interface{}) {
	logger.output(2, logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func Error(msg string) { logger.output(2, logrus.ErrorLevel, msg) }

func Errorf(format string, args ...interface{}) {
	logger.output(2, logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// LogWithFields returns the package-level logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package-level logger with err attached, plus
// any kind, path, param or errno the error chain carries.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}

	var kinded interface{ Kind() errors.ErrorKind }
	if errors.As(err, &kinded) {
		fields = append(fields, F("error_kind", int(kinded.Kind())))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	if errno, ok := errors.Errno(err); ok {
		fields = append(fields, F("errno", int(errno)))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).output(2, logrus.ErrorLevel, msg)
}
