package mailer

import "fmt"

// VerificationEmail renders the account-verification message. The link
// embeds a short-lived token, so the copy mentions the expiry window.
func VerificationEmail(name, verifyURL string) (subject, htmlBody string) {
	subject = "Verify your MOFI account"
	htmlBody = fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Welcome to MOFI. Confirm your email address to activate your account:</p>
<p><a href="%s">Verify my email</a></p>
<p>This link expires in 15 minutes. If you did not create an account you
can ignore this message.</p>
</body></html>`, name, verifyURL)
	return subject, htmlBody
}

// PasswordResetEmail renders the reset message with a short-lived link.
func PasswordResetEmail(name, resetURL string) (subject, htmlBody string) {
	subject = "MOFI Password Reset"
	htmlBody = fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received a request to reset your password. Follow the link below to
choose a new one:</p>
<p><a href="%s">Reset my password</a></p>
<p>This link expires in 15 minutes. If you did not request a reset you can
ignore this message and your password will stay unchanged.</p>
</body></html>`, name, resetURL)
	return subject, htmlBody
}
