package service

import "context"

// EmailSender delivers OTP mails. Failures are logged by callers, never
// propagated to the request.
type EmailSender interface {
	SendVerification(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, code string) error
}
