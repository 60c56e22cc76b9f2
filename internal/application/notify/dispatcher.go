package notify

import (
	"fmt"

	"github.com/auth-api-nosql/internal/infrastructure/smtp"
)

// Dispatcher sends the lifecycle emails. Callers invoke it only after the
// state change has been persisted; a dispatch failure is reported to the
// caller but must never undo the commit.
type Dispatcher interface {
	VerificationEmail(to, code string) error
	WelcomeEmail(to, name string) error
	PasswordResetEmail(to, resetURL string) error
	ResetSuccessEmail(to string) error
}

type dispatcher struct {
	mailer smtp.Mailer
}

func NewDispatcher(mailer smtp.Mailer) Dispatcher {
	return &dispatcher{mailer: mailer}
}

func (d *dispatcher) VerificationEmail(to, code string) error {
	body := fmt.Sprintf(`<p>Hello,</p>
<p>Thank you for signing up. Your verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">%s</p>
<p>Enter this code on the verification page to confirm your email address.</p>
<p>The code expires in 24 hours.</p>`, code)
	return d.mailer.SendEmail(to, "Verify your email", body)
}

func (d *dispatcher) WelcomeEmail(to, name string) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your email has been verified and your account is ready to use.</p>
<p>Welcome aboard!</p>`, name)
	return d.mailer.SendEmail(to, "Welcome!", body)
}

func (d *dispatcher) PasswordResetEmail(to, resetURL string) error {
	body := fmt.Sprintf(`<p>Hello,</p>
<p>We received a request to reset your password. Click the link below to choose a new one:</p>
<p><a href="%s">Reset Password</a></p>
<p>If you didn't request this, you can safely ignore this email.</p>
<p>The link expires in 1 hour.</p>`, resetURL)
	return d.mailer.SendEmail(to, "Reset your password", body)
}

func (d *dispatcher) ResetSuccessEmail(to string) error {
	body := `<p>Hello,</p>
<p>Your password has been changed successfully.</p>
<p>If you did not make this change, please contact support immediately.</p>`
	return d.mailer.SendEmail(to, "Password Reset Successful", body)
}
