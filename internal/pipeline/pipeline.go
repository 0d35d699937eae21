// Package pipeline processes form submissions: spam and CSRF guards first,
// then field cleaning, rule validation, notification delivery and outcome
// reporting. Every attempt that reaches the guards burns the session's CSRF
// token, so nothing can be replayed.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jeevandaan/website/internal/formlog"
	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/pkg/clientip"
	"github.com/jeevandaan/website/pkg/csrf"
	"github.com/jeevandaan/website/pkg/mailer"
	"github.com/jeevandaan/website/pkg/sanitizer"
	"github.com/jeevandaan/website/pkg/session"
	"github.com/jeevandaan/website/pkg/validator"
)

// User-facing messages. Deliberately generic: rejected requests learn
// nothing about why, and failures never leak internals.
const (
	msgSuccess  = "Thank you! Your message has been sent. We will get back to you soon."
	msgDelivery = "We could not send your message right now. Please try again in a few minutes."
	msgRejected = "Unable to process your request."
	msgExpired  = "Your session has expired. Please reload the page and try again."
	msgUnknown  = "Unknown form."
)

// validationMessage summarizes how many fields failed.
func validationMessage(n int) string {
	if n == 1 {
		return "Please correct the highlighted field and try again."
	}
	return fmt.Sprintf("Please correct the %d highlighted fields and try again.", n)
}

// Processor runs submissions through the guard, clean, validate and deliver
// stages. Safe for concurrent use; each call works on its own data.
type Processor struct {
	registry *forms.Registry
	sender   mailer.Sender
	logs     *formlog.Recorder
	log      *slog.Logger
	now      func() time.Time
	timeout  time.Duration
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the process logger used for non-submission diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithSendTimeout bounds how long one delivery attempt may take.
func WithSendTimeout(d time.Duration) Option {
	return func(p *Processor) { p.timeout = d }
}

// New builds a processor over the given form registry, mail sender and
// submission log recorder.
func New(registry *forms.Registry, sender mailer.Sender, logs *formlog.Recorder, opts ...Option) *Processor {
	p := &Processor{
		registry: registry,
		sender:   sender,
		logs:     logs,
		log:      slog.Default(),
		now:      time.Now,
		timeout:  15 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one submission attempt against the named form. The raw map
// carries every posted field including the CSRF token and honeypot. The
// session is mutated (token rotation) but not persisted; the caller saves it.
func (p *Processor) Process(ctx context.Context, sess *session.Session, formID forms.ID, raw map[string]string) Result {
	def, err := p.registry.Get(formID)
	if err != nil {
		p.log.WarnContext(ctx, "submission for unknown form", slog.String("form", string(formID)))
		return Result{Form: formID, Code: http.StatusNotFound, Rejected: true, Outcome: Outcome{Message: msgUnknown}}
	}

	res := Result{Form: def.ID, Anchor: def.Anchor}

	// Automated clients fill every input they see. A value in the hidden
	// honeypot field ends the attempt before any content is inspected.
	if raw[forms.HoneypotField] != "" {
		p.logs.Record(ctx, def.ID, formlog.EventSpamDropped)
		p.rotateToken(ctx, sess)
		res.Code = http.StatusBadRequest
		res.Rejected = true
		res.Outcome = Outcome{Message: msgRejected}
		return res
	}

	if err := csrf.Verify(sess, raw[csrf.FieldName]); err != nil {
		p.logs.Record(ctx, def.ID, formlog.EventTokenRejected)
		res.Code = http.StatusForbidden
		res.Rejected = true
		res.Outcome = Outcome{Message: msgExpired}
		return res
	}

	// The token held for this attempt; issue a fresh one regardless of how
	// the rest of the pipeline goes.
	p.rotateToken(ctx, sess)

	clean := sanitizer.Fields(declaredFields(def, raw), def.Kinds)

	if errs := validator.Validate(clean, def.Rules); !errs.IsEmpty() {
		p.logs.Record(ctx, def.ID, formlog.EventValidationFailed,
			slog.String("fields", strings.Join(errs.Fields(), ",")))
		res.Code = http.StatusBadRequest
		res.Outcome = Outcome{Message: validationMessage(len(errs))}
		res.FieldErrors = errs
		res.Fields = clean
		return res
	}

	if err := p.deliver(ctx, def, clean); err != nil {
		p.logs.Failure(ctx, def.ID, formlog.EventDeliveryFailed, err)
		res.Code = http.StatusInternalServerError
		res.Outcome = Outcome{Message: msgDelivery}
		res.Fields = clean
		return res
	}

	p.logs.Record(ctx, def.ID, formlog.EventAccepted)
	res.Code = http.StatusOK
	res.Outcome = Outcome{Success: true, Message: msgSuccess}
	return res
}

func (p *Processor) deliver(ctx context.Context, def forms.Definition, fields map[string]string) error {
	html, text, err := composeBody(def, fields, p.now(), clientip.FromContext(ctx))
	if err != nil {
		return err
	}

	msg := mailer.Message{
		To:       def.Recipient,
		Subject:  def.Subject,
		BodyHTML: html,
		BodyText: text,
		ReplyTo:  fields[def.EmailField],
		Tag:      string(def.ID),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.sender.Send(ctx, msg)
}

func (p *Processor) rotateToken(ctx context.Context, sess *session.Session) {
	if _, err := csrf.Rotate(sess); err != nil {
		p.log.ErrorContext(ctx, "rotate csrf token", slog.String("error", err.Error()))
	}
}

// declaredFields keeps only the fields the form declares, dropping the CSRF
// token, honeypot and anything else a client chose to post.
func declaredFields(def forms.Definition, raw map[string]string) map[string]string {
	fields := make(map[string]string, len(def.Kinds))
	for name := range def.Kinds {
		fields[name] = raw[name]
	}
	return fields
}
