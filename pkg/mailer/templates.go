package mailer

import "fmt"

// VerificationMessage builds the email carrying an address verification
// link, used on registration, resend and email change.
func VerificationMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "FinTrackr - Verify Your Email",
		HTML: fmt.Sprintf(`<h2>Verify Your Email for FinTrackr</h2>
<p>Please click the button below to confirm your email address:</p>
<a href="%[1]s" style="display: inline-block; padding: 10px 20px; background-color: #f472b6; color: #fff; text-decoration: none; border-radius: 5px;">Verify Email</a>
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p><a href="%[1]s">%[1]s</a></p>
<p>Best regards,<br>The FinTrackr Team</p>`, link),
	}
}

// PasswordResetMessage builds the email carrying a password reset link.
func PasswordResetMessage(to, username, link string) Message {
	return Message{
		To:      to,
		Subject: "FinTrackr - Password Reset Request",
		HTML: fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>Hello %[2]s,</p>
<p>We received a request to reset your password for FinTrackr. Please click the button below to reset your password:</p>
<a href="%[1]s" style="display: inline-block; padding: 10px 20px; background-color: #f472b6; color: #fff; text-decoration: none; border-radius: 5px;">Reset Password</a>
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p><a href="%[1]s">%[1]s</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request a password reset, please ignore this email.</p>
<p>Best regards,<br>The FinTrackr Team</p>`, link, username),
	}
}
