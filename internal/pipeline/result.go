package pipeline

import (
	"strconv"

	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/pkg/session"
)

// Outcome is the user-facing verdict of a processed submission.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Result is what one submission attempt produced. Rejected results carry no
// outcome to show on the page; the request ends with a bare client error.
type Result struct {
	Form        forms.ID
	Code        int // HTTP status for the JSON adapter
	Rejected    bool
	Outcome     Outcome
	FieldErrors map[string]string
	// Fields holds the sanitized values to refill the form with after a
	// failed attempt. Nil means the form is cleared.
	Fields map[string]string
	Anchor string
}

// Session keys for flashed results, scoped per form so both forms on the
// page keep independent outcomes.
func flashKey(id forms.ID, part string) string {
	return "flash:" + string(id) + ":" + part
}

// Flash stores the result in the session for the next page render. Rejected
// results store nothing. The caller persists the session.
func (r Result) Flash(sess *session.Session) {
	if r.Rejected {
		return
	}
	sess.Set(flashKey(r.Form, "success"), strconv.FormatBool(r.Outcome.Success))
	sess.Set(flashKey(r.Form, "message"), r.Outcome.Message)
	if len(r.FieldErrors) > 0 {
		sess.Set(flashKey(r.Form, "errors"), r.FieldErrors)
	}
	if len(r.Fields) > 0 {
		sess.Set(flashKey(r.Form, "fields"), r.Fields)
	}
}

// Flash is a previously stored result popped for rendering. Reading it
// removes it from the session, so a reload shows a clean form.
type Flash struct {
	Outcome     Outcome
	FieldErrors map[string]string
	Fields      map[string]string
}

// PopFlash removes and returns the flashed result for a form, if any.
func PopFlash(sess *session.Session, id forms.ID) (Flash, bool) {
	msg, ok := sess.PopString(flashKey(id, "message"))
	if !ok {
		return Flash{}, false
	}
	success, _ := sess.PopString(flashKey(id, "success"))
	errs, _ := sess.PopStringMap(flashKey(id, "errors"))
	fields, _ := sess.PopStringMap(flashKey(id, "fields"))

	return Flash{
		Outcome:     Outcome{Success: success == "true", Message: msg},
		FieldErrors: errs,
		Fields:      fields,
	}, true
}
