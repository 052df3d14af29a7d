package format

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

const ResetSubject = "🔐 Reset Password VibePOS - Link Aman"

// ResetLink builds the one-time link embedded in the reset email. Everything
// goes through url.Values so the token survives the round trip byte-for-byte
// when the customer clicks it.
func ResetLink(baseURL, email, token string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return baseURL + "/reset-password?" + q.Encode()
}

// ResetText is the chat-channel variant of the reset notice: no markup, same
// link and expiry warning.
func ResetText(name, resetURL string) string {
	if name == "" {
		name = "User"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "*Reset Password VibePOS*\n\n")
	fmt.Fprintf(&b, "Halo %s! Kami menerima permintaan reset password untuk akun VibePOS Anda.\n\n", name)
	fmt.Fprintf(&b, "Buka link berikut untuk membuat password baru:\n%s\n\n", resetURL)
	b.WriteString("_Link kedaluwarsa dalam 1 jam. Jika Anda tidak meminta reset password, abaikan pesan ini._")
	return b.String()
}

var resetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Reset Password VibePOS</title>
</head>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f5f5f5; margin: 0; padding: 0; color: #333;">
  <div style="max-width: 600px; margin: 20px auto; background: white; border-radius: 10px; overflow: hidden;">
    <div style="background: linear-gradient(135deg, #ef4444, #dc2626); color: white; padding: 30px 20px; text-align: center;">
      <h1 style="margin: 0; font-size: 24px;">🔐 Reset Password VibePOS</h1>
      <p style="margin: 10px 0 0 0; opacity: 0.9;">Permintaan Reset Password Anda</p>
    </div>
    <div style="padding: 30px 20px;">
      <h2 style="color: #1f2937; margin-top: 0;">Halo {{.Name}}!</h2>
      <p>Kami menerima permintaan untuk mereset password akun VibePOS Anda dengan email: <strong>{{.Email}}</strong></p>
      <div style="background: #fff3cd; padding: 15px; border-radius: 8px; border-left: 4px solid #f59e0b; margin: 20px 0;">
        <strong>⚠️ Penting:</strong> Jika Anda tidak meminta reset password, abaikan email ini dan password Anda akan tetap aman.
      </div>
      <p>Untuk membuat password baru, klik tombol di bawah ini:</p>
      <div style="text-align: center;">
        <a href="{{.URL}}" style="display: inline-block; background: linear-gradient(135deg, #ef4444, #dc2626); color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; margin: 20px 0; font-weight: 600;">🔑 Reset Password Sekarang</a>
      </div>
      <p>Atau copy dan paste link berikut di browser Anda:</p>
      <div style="background: #f8f9fa; padding: 15px; border-radius: 8px; word-break: break-all; font-family: monospace; font-size: 14px; border: 1px solid #e9ecef;">{{.URL}}</div>
      <div style="background: #fff3cd; padding: 15px; border-radius: 8px; border-left: 4px solid #f59e0b; margin: 20px 0;">
        <strong>⏰ Penting:</strong> Link ini akan kedaluwarsa dalam <strong>1 jam</strong> untuk keamanan akun Anda.
      </div>
      <div style="background: #f0f9ff; padding: 15px; border-radius: 8px; border-left: 4px solid #0ea5e9; margin: 20px 0;">
        <h3 style="margin-top: 0; color: #0ea5e9;">🛡️ Tips Keamanan Password:</h3>
        <ul style="margin: 10px 0;">
          <li>Gunakan password yang kuat (minimal 8 karakter)</li>
          <li>Kombinasikan huruf besar, kecil, angka, dan simbol</li>
          <li>Jangan gunakan password yang sama dengan akun lain</li>
          <li>Jangan bagikan password kepada siapapun</li>
        </ul>
      </div>
    </div>
    <div style="text-align: center; padding: 20px; background: #f8f9fa; color: #666; font-size: 14px;">
      <p><strong>© 2024 VibePOS</strong> - Sistem Point of Sale Terpercaya</p>
      <p>Email ini dikirim otomatis, mohon jangan membalas.</p>
    </div>
  </div>
</body>
</html>
`))

// ResetHTML renders the password-reset notice.
func ResetHTML(name, email, resetURL string) (string, error) {
	if name == "" {
		name = "User"
	}
	var buf bytes.Buffer
	err := resetTmpl.Execute(&buf, map[string]string{
		"Name":  name,
		"Email": email,
		"URL":   resetURL,
	})
	if err != nil {
		return "", fmt.Errorf("format: render reset notice: %w", err)
	}
	return buf.String(), nil
}
