package mail

import (
	"bytes"
	"html/template"
)

const verificationSubject = "Verify your email - Portfolio Studio"

var verificationTemplate = template.Must(template.New("verify").Parse(`<div style="margin:0;padding:0;background:#050c1a;font-family:Inter,Segoe UI,Arial,sans-serif;color:#e5ecff;">
  <div style="max-width:620px;margin:0 auto;padding:28px 18px;">
    <div style="border:1px solid rgba(73,101,141,.45);border-radius:18px;background:linear-gradient(180deg,#0b1529,#08111f);padding:28px;">
      <p style="margin:0;font-size:11px;letter-spacing:.24em;text-transform:uppercase;color:#25d2df;font-weight:700;">Portfolio Studio</p>
      <h1 style="margin:14px 0 8px;font-size:28px;line-height:1.2;color:#f4f8ff;">Verify Your Email</h1>
      <p style="margin:0 0 14px;font-size:15px;line-height:1.7;color:#b9c5de;">
        Hi {{.UserName}}, welcome to Portfolio Studio. Please verify your email to activate your account and start building portfolio sites.
      </p>
      <div style="margin:24px 0;">
        <a href="{{.VerifyURL}}" style="display:inline-block;background:#25d2df;color:#041424;text-decoration:none;padding:13px 20px;border-radius:12px;font-weight:700;font-size:14px;">Verify Email Address</a>
      </div>
      <p style="margin:0;font-size:13px;line-height:1.7;color:#98a8c6;">This verification link expires in {{.ExpiresIn}}.</p>
      <p style="margin:10px 0 0;font-size:13px;line-height:1.7;color:#98a8c6;">
        If the button does not work, copy and paste this URL into your browser:<br />
        <span style="color:#7be3eb;word-break:break-all;">{{.VerifyURL}}</span>
      </p>
    </div>
    <p style="margin:12px 4px 0;color:#7d8aa4;font-size:12px;">Sent by Portfolio Studio. If you did not request this, you can ignore this email.</p>
  </div>
</div>`))

type verificationData struct {
	UserName  string
	VerifyURL string
	ExpiresIn string
}

// RenderVerification renders the verification email body. User supplied
// values are HTML escaped.
func RenderVerification(userName, verifyURL string) (string, error) {
	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, verificationData{
		UserName:  userName,
		VerifyURL: verifyURL,
		ExpiresIn: "30 minutes",
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
