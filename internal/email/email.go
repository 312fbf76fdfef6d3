// Package email delivers verification mail. The Sender interface keeps the
// rest of the app ignorant of the transport: production wires the Maileroo
// HTTP client, local development wires the logging mock.
package email

import "context"

// Sender sends a verification email containing the given link.
type Sender interface {
	SendVerification(ctx context.Context, to, verificationLink string) error
}
