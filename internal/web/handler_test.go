package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevandaan/website/internal/formlog"
	"github.com/jeevandaan/website/internal/forms"
	"github.com/jeevandaan/website/internal/pipeline"
	"github.com/jeevandaan/website/internal/web"
	"github.com/jeevandaan/website/pkg/cookie"
	"github.com/jeevandaan/website/pkg/mailer"
	"github.com/jeevandaan/website/pkg/session"
)

var csrfInputRe = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

type stubSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type site struct {
	server *httptest.Server
	client *http.Client
	sender *stubSender
}

func newSite(t *testing.T, opts ...web.Option) *site {
	t.Helper()

	cookies, err := cookie.New([]string{"test-secret-test-secret-test-secret!"})
	require.NoError(t, err)
	sessions := session.New(session.WithCookieManager(cookies))
	t.Cleanup(func() { sessions.Close() })

	reg, err := forms.NewRegistry(forms.Config{})
	require.NoError(t, err)

	logs := formlog.New(formlog.Config{Dir: t.TempDir()}, nil)
	t.Cleanup(func() { logs.Close() })

	sender := &stubSender{}
	proc := pipeline.New(reg, sender, logs)

	handler := web.NewHandler(sessions, reg, proc, opts...)
	server := httptest.NewServer(web.NewRouter(handler))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &site{
		server: server,
		sender: sender,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// loadPage fetches the page and returns its body and the CSRF token it
// carries. The client's jar keeps the session cookie.
func (s *site) loadPage(t *testing.T) (string, string) {
	t.Helper()
	resp, err := s.client.Get(s.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	match := csrfInputRe.FindSubmatch(body)
	require.NotNil(t, match, "page must embed a csrf token")
	return string(body), string(match[1])
}

func (s *site) submit(t *testing.T, fields url.Values) *http.Response {
	t.Helper()
	resp, err := s.client.PostForm(s.server.URL+"/submit", fields)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func contactFields(token string) url.Values {
	return url.Values{
		"form_id": {"contact_form"},
		"_csrf":   {token},
		"name":    {"Asha Patel"},
		"email":   {"asha@example.org"},
		"message": {"I would like to know more about your education programs."},
	}
}

func TestPageRendersBothForms(t *testing.T) {
	s := newSite(t)
	body, _ := s.loadPage(t)

	assert.Contains(t, body, "Contact Us")
	assert.Contains(t, body, "Volunteer With Us")
	assert.Contains(t, body, `name="website"`, "honeypot input must be present")
	assert.Contains(t, body, `id="contact"`)
	assert.Contains(t, body, `id="volunteer"`)
}

func TestSubmitSuccessRedirectsAndFlashesOnce(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	resp := s.submit(t, contactFields(token))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/#contact", resp.Header.Get("Location"))
	assert.Equal(t, 1, s.sender.count())

	body, _ := s.loadPage(t)
	assert.Contains(t, body, "Thank you!")
	assert.NotContains(t, body, "Asha Patel", "accepted submission clears the form")

	// the outcome is read-once
	body, _ = s.loadPage(t)
	assert.NotContains(t, body, "Thank you!")
}

func TestSubmitValidationFailureRedisplays(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	fields := contactFields(token)
	fields.Set("name", "A")
	fields.Set("email", "not-an-address")

	resp := s.submit(t, fields)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 0, s.sender.count())

	body, _ := s.loadPage(t)
	assert.Contains(t, body, "Please correct the 2 highlighted fields")
	assert.Contains(t, body, "must be at least 2 characters long")
	// the invalid address is blanked by sanitizing, so it reads as missing
	assert.Contains(t, body, "field is required")
	assert.NotContains(t, body, "not-an-address")
	assert.Contains(t, body, "education programs", "valid fields are retained")
}

func TestSubmitHoneypotRejected(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	fields := contactFields(token)
	fields.Set("website", "https://spam.example")

	resp := s.submit(t, fields)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, s.sender.count())
}

func TestSubmitForgedTokenRejected(t *testing.T) {
	s := newSite(t)
	s.loadPage(t)

	resp := s.submit(t, contactFields("forged"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, s.sender.count())
}

func TestSubmitTokenSingleUse(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	resp := s.submit(t, contactFields(token))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = s.submit(t, contactFields(token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 1, s.sender.count())
}

func TestSubmitUnknownFormNotFound(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	fields := contactFields(token)
	fields.Set("form_id", "newsletter_form")

	resp := s.submit(t, fields)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPISubmitJSON(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	payload, err := json.Marshal(map[string]string{
		"_csrf":   token,
		"name":    "Asha Patel",
		"email":   "asha@example.org",
		"message": "I would like to know more about your education programs.",
	})
	require.NoError(t, err)

	resp, err := s.client.Post(s.server.URL+"/api/forms/contact_form", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, s.sender.count())

	var out struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Msg, "Thank you!")
}

func TestAPISubmitValidationErrors(t *testing.T) {
	s := newSite(t)
	_, token := s.loadPage(t)

	payload, err := json.Marshal(map[string]string{
		"_csrf": token,
		"name":  "Asha Patel",
		"email": "broken",
	})
	require.NoError(t, err)

	resp, err := s.client.Post(s.server.URL+"/api/forms/contact_form", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Msg    string            `json:"msg"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Errors, "email")
	assert.Contains(t, out.Errors, "message")
}

func TestAPISubmitForgedToken(t *testing.T) {
	s := newSite(t)
	s.loadPage(t)

	resp, err := s.client.Post(s.server.URL+"/api/forms/contact_form", "application/json",
		strings.NewReader(`{"_csrf":"forged","name":"A","email":"a@b.co","message":"hello there friend"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPISubmitMalformedBody(t *testing.T) {
	s := newSite(t)

	resp, err := s.client.Post(s.server.URL+"/api/forms/contact_form", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := newSite(t)
		resp, err := s.client.Get(s.server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("failing probe", func(t *testing.T) {
		s := newSite(t, web.WithReadinessProbe(func(context.Context) error {
			return errors.New("redis down")
		}))
		resp, err := s.client.Get(s.server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestSubmitDeliveryFailure(t *testing.T) {
	s := newSite(t)
	s.sender.err = errors.New("smtp down")
	_, token := s.loadPage(t)

	resp := s.submit(t, contactFields(token))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	body, _ := s.loadPage(t)
	assert.Contains(t, body, "could not send your message")
	assert.Contains(t, body, `value="Asha Patel"`, "input survives a delivery failure")
}
