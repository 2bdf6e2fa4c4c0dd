package logging

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// AuditEntry is one line of the audit log: which command ran, with what
// parameters, and how it ended.
type AuditEntry struct {
	Timestamp   time.Time         `json:"timestamp"`
	Command     string            `json:"command"`
	TraceID     string            `json:"trace_id,omitempty"`
	Parameters  map[string]string `json:"parameters,omitempty"`
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	RecordCount int               `json:"record_count,omitempty"`
	TotalKGCO2e float64           `json:"total_kg_co2e,omitempty"`
	DurationMS  int64             `json:"duration_ms"`
}

// NewAuditEntry starts an entry for the named command.
func NewAuditEntry(command, traceID string) *AuditEntry {
	return &AuditEntry{
		Timestamp: time.Now().UTC(),
		Command:   command,
		TraceID:   traceID,
	}
}

// WithParameters records the command's parameters.
func (e *AuditEntry) WithParameters(params map[string]string) *AuditEntry {
	e.Parameters = params
	return e
}

// WithError marks the entry failed with the given message.
func (e *AuditEntry) WithError(msg string) *AuditEntry {
	e.Success = false
	e.Error = msg
	return e
}

// WithSuccess marks the entry successful and records the analyzed record
// count and total emissions.
func (e *AuditEntry) WithSuccess(count int, totalKG float64) *AuditEntry {
	e.Success = true
	e.RecordCount = count
	e.TotalKGCO2e = totalKG
	return e
}

// WithDuration records elapsed time since start.
func (e *AuditEntry) WithDuration(start time.Time) *AuditEntry {
	e.DurationMS = time.Since(start).Milliseconds()
	return e
}

// AuditLogger records audit entries. Implementations must be safe for
// concurrent use.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry)
	Close() error
}

// AuditLoggerConfig controls audit logging.
type AuditLoggerConfig struct {
	Enabled bool
	File    string
}

// NewAuditLogger returns a JSON-lines file audit logger, or a no-op logger
// when auditing is disabled or the file cannot be opened. Audit failures
// never fail the command they describe.
func NewAuditLogger(cfg AuditLoggerConfig) AuditLogger {
	if !cfg.Enabled || cfg.File == "" {
		return noopAuditLogger{}
	}
	file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return noopAuditLogger{}
	}
	return &fileAuditLogger{file: file}
}

type noopAuditLogger struct{}

func (noopAuditLogger) Log(context.Context, AuditEntry) {}
func (noopAuditLogger) Close() error                    { return nil }

type fileAuditLogger struct {
	mu   sync.Mutex
	file *os.File
}

func (l *fileAuditLogger) Log(ctx context.Context, entry AuditEntry) {
	line, err := json.Marshal(entry)
	if err != nil {
		FromContext(ctx).Warn().Err(err).Msg("failed to marshal audit entry")
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		FromContext(ctx).Warn().Err(err).Msg("failed to write audit entry")
	}
}

func (l *fileAuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ContextWithAuditLogger attaches an audit logger to ctx.
func ContextWithAuditLogger(ctx context.Context, logger AuditLogger) context.Context {
	return context.WithValue(ctx, auditLoggerKey, logger)
}

// AuditLoggerFromContext returns the audit logger attached to ctx, or a
// no-op logger when none is present. Callers never need a nil check.
func AuditLoggerFromContext(ctx context.Context) AuditLogger {
	if logger, ok := ctx.Value(auditLoggerKey).(AuditLogger); ok {
		return logger
	}
	return noopAuditLogger{}
}
