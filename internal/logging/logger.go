// Package logging carries the request id through context and writes the
// bracketed key=value lines used across the service.
package logging

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
)

const (
	levelInfo int32 = iota
	levelWarn
	levelError
)

var minLevel atomic.Int32

// SetLevel drops lines below level ("info", "warn" or "error"). Unknown
// values keep everything.
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warn", "warning":
		minLevel.Store(levelWarn)
	case "error":
		minLevel.Store(levelError)
	default:
		minLevel.Store(levelInfo)
	}
}

func enabled(level int32) bool { return level >= minLevel.Load() }

type requestIDKey struct{}

// WithRequestID stores rid in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx, or "" if none was set.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	requestID string
}

// New creates a logger bound to the request in ctx.
func New(ctx context.Context) *Logger {
	requestID := "unknown"
	if ctx != nil {
		if rid := RequestID(ctx); rid != "" {
			requestID = rid
		}
	}
	return &Logger{requestID: requestID}
}

func (l *Logger) Error(operation string, err error) {
	log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

func (l *Logger) Errorf(operation string, format string, args ...interface{}) {
	log.Printf("[error] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) Info(operation string, message string) {
	if !enabled(levelInfo) {
		return
	}
	log.Printf("[info] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

func (l *Logger) Infof(operation string, format string, args ...interface{}) {
	if !enabled(levelInfo) {
		return
	}
	log.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

func (l *Logger) Warn(operation string, message string) {
	if !enabled(levelWarn) {
		return
	}
	log.Printf("[warn] request_id=%s operation=%s message=%s", l.requestID, operation, message)
}

func (l *Logger) Warnf(operation string, format string, args ...interface{}) {
	if !enabled(levelWarn) {
		return
	}
	log.Printf("[warn] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}
