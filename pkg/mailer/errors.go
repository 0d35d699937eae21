package mailer

import "errors"

var (
	ErrInvalidConfig  = errors.New("mailer.invalid_config")
	ErrInvalidMessage = errors.New("mailer.invalid_message")
	ErrSendFailed     = errors.New("mailer.send_failed")
	ErrUnknownDriver  = errors.New("mailer.unknown_driver")
)
