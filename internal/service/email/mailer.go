package email

import (
	"fmt"
	"html"
)

// Mailer renders the account lifecycle emails and hands them to a Sender.
// Action links embed the one-time token as a query parameter; the token is
// never logged or persisted in clear text anywhere else.
type Mailer struct {
	sender      Sender
	frontendURL string
}

func NewMailer(sender Sender, frontendURL string) *Mailer {
	return &Mailer{sender: sender, frontendURL: frontendURL}
}

func (m *Mailer) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`
		<h2>Verify your email</h2>
		<p>Hi %s,</p>
		<p>Click the link below to verify your email address. The link expires in one hour.</p>
		<p><a href="%s">Verify email</a></p>
		<p>If you did not create an account, you can ignore this email.</p>`,
		html.EscapeString(displayName(name, to)), link)
	return m.sender.Send(to, "Verify your email address", body)
}

func (m *Mailer) SendPasswordResetEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`
		<h2>Reset your password</h2>
		<p>Hi %s,</p>
		<p>We received a request to reset your password. The link below expires in one hour and can be used once.</p>
		<p><a href="%s">Reset password</a></p>
		<p>If you did not request this, no action is needed; your password is unchanged.</p>`,
		html.EscapeString(displayName(name, to)), link)
	return m.sender.Send(to, "Password reset request", body)
}

func (m *Mailer) SendWelcomeEmail(to, name string) error {
	body := fmt.Sprintf(`
		<h2>Welcome aboard</h2>
		<p>Hi %s,</p>
		<p>Your email is verified and your account is ready to use.</p>
		<p><a href="%s">Go to your dashboard</a></p>`,
		html.EscapeString(displayName(name, to)), m.frontendURL)
	return m.sender.Send(to, "Welcome!", body)
}

func displayName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
