package session

import "errors"

var (
	ErrNotFound        = errors.New("session.not_found")
	ErrExpired         = errors.New("session.expired")
	ErrInvalid         = errors.New("session.invalid")
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
