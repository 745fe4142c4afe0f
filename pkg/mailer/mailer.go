// Package mailer defines the outbound email capability used by the
// auth flows. Delivery mechanics live in infra.
package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends transactional email: verification links, password
// resets. Implementations must not block beyond their own timeout.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
