package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a token-keyed bag of values scoped to one browser session.
type Session struct {
	ID             uuid.UUID      `json:"id"`
	Token          string         `json:"token"`
	Data           map[string]any `json:"data,omitempty"`
	ExpiresAt      time.Time      `json:"expires_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewSession creates a session with a fresh ID and the given lifetime.
func NewSession(token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		Data:           make(map[string]any),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Get retrieves a value.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	v, ok := s.Data[key]
	return v, ok
}

// GetString retrieves a string value.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Set stores a value.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// PopString removes and returns a string value. The second return is false
// when the key is absent, so callers can tell "no value" from an empty one.
func (s *Session) PopString(key string) (string, bool) {
	v, ok := s.GetString(key)
	if ok {
		s.Delete(key)
	}
	return v, ok
}

// PopStringMap removes and returns a string-map value. Values that went
// through a JSON store round-trip come back as map[string]any; both shapes
// are handled.
func (s *Session) PopStringMap(key string) (map[string]string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	s.Delete(key)

	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			if str, ok := val.(string); ok {
				out[k] = str
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}
