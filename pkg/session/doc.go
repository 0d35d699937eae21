// Package session provides per-browser-session server-side state.
//
// A Manager ties three pieces together: a Transport that moves the opaque
// session token between client and server (signed cookie by default), a
// Store that persists session data (in-memory or Redis), and the Session
// itself — a token-keyed bag of values with an expiry.
//
// Sessions here carry form-flow state: the CSRF token, the pending form
// outcome and retained field values for redisplay after a redirect. Outcome
// data is read with Pop helpers that delete on read, so a submission result
// is shown exactly once.
package session
