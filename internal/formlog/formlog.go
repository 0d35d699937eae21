// Package formlog records form submission outcomes to per-form append-only
// log files, one JSON record per line. Delivery and infrastructure failures
// are additionally routed to a shared error log. When a log file cannot be
// opened the record falls back to the process logger so nothing is lost.
package formlog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/pkg/clientip"
)

// Event names the submission milestones worth recording.
type Event string

const (
	EventAccepted         Event = "submission_accepted"
	EventValidationFailed Event = "validation_failed"
	EventDeliveryFailed   Event = "delivery_failed"
	EventSpamDropped      Event = "spam_dropped"
	EventTokenRejected    Event = "token_rejected"
)

// errorLog is the shared channel for failures across all forms.
const errorLog = "error"

// Config locates the log directory.
type Config struct {
	Dir string `env:"FORMLOG_DIR" envDefault:"logs"`
}

// Recorder writes submission events to named log files. Safe for concurrent
// use; each file is opened once and appended to for the process lifetime.
type Recorder struct {
	dir      string
	fallback *slog.Logger

	mu    sync.Mutex
	logs  map[string]*slog.Logger
	files []*os.File
}

// New returns a recorder writing under cfg.Dir. The fallback logger takes
// records whose file cannot be opened; nil falls back to slog.Default().
func New(cfg Config, fallback *slog.Logger) *Recorder {
	if fallback == nil {
		fallback = slog.Default()
	}
	return &Recorder{
		dir:      cfg.Dir,
		fallback: fallback,
		logs:     make(map[string]*slog.Logger),
	}
}

// Record appends an event to the log of the form it originated from.
// The requester IP is taken from the context when present.
func (r *Recorder) Record(ctx context.Context, form forms.ID, event Event, attrs ...slog.Attr) {
	args := recordArgs(ctx, form, event, attrs)
	r.logger(logName(form)).LogAttrs(ctx, slog.LevelInfo, string(event), args...)
}

// Failure appends the event to the originating form's log and mirrors it,
// with the error, to the shared error log.
func (r *Recorder) Failure(ctx context.Context, form forms.ID, event Event, err error, attrs ...slog.Attr) {
	args := recordArgs(ctx, form, event, attrs)
	r.logger(logName(form)).LogAttrs(ctx, slog.LevelWarn, string(event), args...)

	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	r.logger(errorLog).LogAttrs(ctx, slog.LevelError, string(event), args...)
}

// Close releases the underlying file handles.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, f := range r.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.files = nil
	r.logs = make(map[string]*slog.Logger)
	return firstErr
}

func recordArgs(ctx context.Context, form forms.ID, event Event, attrs []slog.Attr) []slog.Attr {
	args := make([]slog.Attr, 0, len(attrs)+2)
	args = append(args, slog.String("form", string(form)))
	if ip := clientip.FromContext(ctx); ip != "" {
		args = append(args, slog.String("ip", ip))
	}
	return append(args, attrs...)
}

func logName(form forms.ID) string {
	switch form {
	case forms.Contact:
		return "contact"
	case forms.Volunteer:
		return "volunteer"
	default:
		return "forms"
	}
}

// logger returns the slog logger for a named log, opening its file on first
// use. Open failures are reported once and the fallback logger is cached in
// place of the file-backed one.
func (r *Recorder) logger(name string) *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if log, ok := r.logs[name]; ok {
		return log
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.fallback.Error("formlog: create log dir", slog.String("dir", r.dir), slog.String("error", err.Error()))
		r.logs[name] = r.fallback
		return r.fallback
	}

	path := filepath.Join(r.dir, name+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.fallback.Error("formlog: open log file", slog.String("path", path), slog.String("error", err.Error()))
		r.logs[name] = r.fallback
		return r.fallback
	}

	r.files = append(r.files, f)
	log := slog.New(slog.NewJSONHandler(f, nil))
	r.logs[name] = log
	return log
}
