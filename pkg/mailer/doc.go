// Package mailer delivers form submissions by email.
//
// The Sender interface hides the transport. Three backends ship with it:
// a Postmark client for production, an SMTP client for self-hosted relays,
// and a development sender that writes messages to disk instead of sending
// them. New picks the backend from configuration.
package mailer
