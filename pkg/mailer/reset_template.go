package mailer

import (
	"bytes"
	"html/template"
)

// Reset-password email. Kept deliberately small: one message type, one
// template, rendered in the worker.

const resetSubject = "Password Reset Request"

var resetTmpl = template.Must(template.New("reset_password").Parse(`
<div style="max-width: 600px; margin: auto; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f4; padding: 24px; border-radius: 12px; border: 1px solid #e0e0e0;">
  <h2 style="color: #1D4ED8; margin-top: 0;">Guru Tasks &ndash; Password Reset</h2>

  <p style="font-size: 15px; color: #333;">
    You recently requested to reset your <strong>Guru Tasks</strong> password.
    Click the button below to set a new one. <br />
    <span style="color: #DC2626;"><strong>Note:</strong> This link expires in {{.ExpiresInMinutes}} minutes.</span>
  </p>

  <div style="text-align: center; margin: 32px 0;">
    <a href="{{.ResetURL}}" style="background-color: #1D4ED8; color: #FFFFFF; padding: 14px 28px; text-decoration: none; border-radius: 8px; font-weight: bold; font-size: 16px; display: inline-block;">
      Reset Your Password
    </a>
  </div>

  <p style="font-size: 14px; color: #666;">
    If you didn&rsquo;t request this, you can safely ignore this message.
    Your password will remain unchanged.
  </p>

  <hr style="margin: 40px 0; border: none; border-top: 1px solid #ccc;" />

  <p style="font-size: 13px; color: #999; text-align: center;">
    Powered by <strong>Guru Innovation Tasks</strong> &bull; <a style="color: #1D4ED8;" href="https://guru.tasks">guru.tasks</a>
    <br />
    This is an automated message. Please do not reply.
  </p>
</div>
`))

type resetData struct {
	ResetURL         string
	ExpiresInMinutes int
}

// RenderResetPassword renders the reset email from job data and returns
// subject and HTML body.
func RenderResetPassword(data map[string]any) (subject, html string, err error) {
	d := resetData{ExpiresInMinutes: 15}
	if v, ok := data["ResetURL"].(string); ok {
		d.ResetURL = v
	}
	if v, ok := data["ExpiresInMinutes"].(float64); ok && v > 0 {
		d.ExpiresInMinutes = int(v)
	}
	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, d); err != nil {
		return "", "", err
	}
	return resetSubject, buf.String(), nil
}
