// Package csrf issues and verifies per-session CSRF tokens.
//
// A token lives in the session under a fixed key and is valid for exactly
// one submission attempt: verification failure invalidates it, and the
// submission pipeline rotates it after every processed attempt, so a
// captured form post cannot be replayed.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"github.com/jeevandaan/website/pkg/session"
)

// FieldName is the form field carrying the token back to the server.
const FieldName = "_csrf"

const sessionKey = "csrf_token"

var (
	ErrTokenMismatch   = errors.New("csrf.token_mismatch")
	ErrTokenGeneration = errors.New("csrf.token_generation_failed")
)

// Token returns the session's current CSRF token, issuing one when the
// session has none yet. The caller persists the session afterwards.
func Token(sess *session.Session) (string, error) {
	if token, ok := sess.GetString(sessionKey); ok && token != "" {
		return token, nil
	}
	return Rotate(sess)
}

// Rotate discards any current token and issues a fresh one.
func Rotate(sess *session.Session) (string, error) {
	token, err := generate()
	if err != nil {
		return "", err
	}
	sess.Set(sessionKey, token)
	return token, nil
}

// Verify compares the submitted token against the session token in constant
// time. Absence or mismatch returns ErrTokenMismatch and invalidates the
// stored token, forcing a fresh page load before the next attempt.
func Verify(sess *session.Session, submitted string) error {
	current, ok := sess.GetString(sessionKey)
	if !ok || current == "" || submitted == "" {
		sess.Delete(sessionKey)
		return ErrTokenMismatch
	}

	if subtle.ConstantTimeCompare([]byte(current), []byte(submitted)) != 1 {
		sess.Delete(sessionKey)
		return ErrTokenMismatch
	}

	return nil
}

func generate() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
