// Package web exposes the site's HTTP surface: the combined forms page with
// post/redirect/get flow, a JSON submission endpoint for progressive
// enhancement, and a health probe.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/internal/pipeline"
	"github.com/jeevandaan/website/pkg/csrf"
	"github.com/jeevandaan/website/pkg/session"
)

// maxBodyBytes caps a submission request body. Forms are small; anything
// bigger is not a browser.
const maxBodyBytes = 64 << 10

// Handler serves the form pages and submission endpoints.
type Handler struct {
	sessions *session.Manager
	registry *forms.Registry
	proc     *pipeline.Processor
	log      *slog.Logger
	probes   []func(context.Context) error
}

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) { h.log = log }
}

// WithReadinessProbe adds a dependency check to the health endpoint.
func WithReadinessProbe(probe func(context.Context) error) Option {
	return func(h *Handler) { h.probes = append(h.probes, probe) }
}

// NewHandler wires the page and API handlers over their collaborators.
func NewHandler(sessions *session.Manager, registry *forms.Registry, proc *pipeline.Processor, opts ...Option) *Handler {
	h := &Handler{
		sessions: sessions,
		registry: registry,
		proc:     proc,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Page renders the combined forms page. Flashed outcomes and retained field
// values from the previous attempt are consumed here, so a reload after the
// redirect shows them exactly once.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Ensure(r.Context(), w, r)
	if err != nil {
		h.serverError(w, r, "ensure session", err)
		return
	}

	token, err := csrf.Token(sess)
	if err != nil {
		h.serverError(w, r, "issue csrf token", err)
		return
	}

	view := pageView{
		CSRFField:     csrf.FieldName,
		CSRFToken:     token,
		FormField:     forms.FormField,
		HoneypotField: forms.HoneypotField,
	}
	for _, def := range h.registry.All() {
		flash, _ := pipeline.PopFlash(sess, def.ID)
		view.Forms = append(view.Forms, buildFormView(def, flash))
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.serverError(w, r, "save session", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, view); err != nil {
		h.log.ErrorContext(r.Context(), "render page", slog.String("error", err.Error()))
	}
}

// Submit handles a browser form post and answers with a 303 redirect back to
// the page, anchored at the originating form.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Ensure(r.Context(), w, r)
	if err != nil {
		h.serverError(w, r, "ensure session", err)
		return
	}

	formID := forms.ID(r.PostFormValue(forms.FormField))
	res := h.proc.Process(r.Context(), sess, formID, firstValues(r.PostForm))

	res.Flash(sess)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.serverError(w, r, "save session", err)
		return
	}

	if res.Rejected {
		http.Error(w, res.Outcome.Message, res.Code)
		return
	}

	target := "/"
	if res.Anchor != "" {
		target += "#" + res.Anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// SubmitJSON handles a submission from page scripts and answers with a JSON
// body instead of a redirect. The same guards and pipeline apply; the form
// is named in the URL.
func (h *Handler) SubmitJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	raw, err := decodeSubmission(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Msg: "Unable to process your request."})
		return
	}

	sess, err := h.sessions.Ensure(r.Context(), w, r)
	if err != nil {
		h.serverError(w, r, "ensure session", err)
		return
	}

	formID := forms.ID(chi.URLParam(r, "form"))
	res := h.proc.Process(r.Context(), sess, formID, raw)

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.serverError(w, r, "save session", err)
		return
	}

	writeJSON(w, res.Code, apiResponse{Msg: res.Outcome.Message, Errors: res.FieldErrors})
}

// Health reports process liveness and, when probes are registered,
// dependency readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	for _, probe := range h.probes {
		if err := probe(r.Context()); err != nil {
			h.log.WarnContext(r.Context(), "readiness probe failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, apiResponse{Msg: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, apiResponse{Msg: "ok"})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.log.ErrorContext(r.Context(), action, slog.String("error", err.Error()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

type apiResponse struct {
	Msg    string            `json:"msg"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeSubmission accepts either a JSON object of string fields or a
// regular form-encoded body.
func decodeSubmission(r *http.Request) (map[string]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var raw map[string]string
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return firstValues(r.PostForm), nil
}

// firstValues flattens url.Values to the first value per field, which is
// all the forms ever send.
func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for name, vals := range values {
		if len(vals) > 0 {
			out[name] = vals[0]
		}
	}
	return out
}
