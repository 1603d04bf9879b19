package impl

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host string
	Port int
	User string
	Pass string
	// ServerAddress is the public base URL embedded in action links.
	ServerAddress string
}

// GomailSender sends OTP mails over SMTP.
type GomailSender struct {
	cfg MailConfig
}

func NewGomailSender(cfg MailConfig) *GomailSender {
	return &GomailSender{cfg: cfg}
}

func (s *GomailSender) SendVerification(ctx context.Context, to, code string) error {
	link := fmt.Sprintf("%s/verify/%s/%s", s.cfg.ServerAddress, to, code)
	body := fmt.Sprintf(`<h2>Welcome to Stream Haven</h2>
<p>Please click the link below to verify your email and activate your account:</p>
<p><a href="%s">Verify My Account</a></p>
<p>If the button doesn't work, copy and paste this link into your browser:<br>%s</p>
<p>This link expires in 10 minutes.</p>`, link, link)
	return s.send(to, "Stream Haven – Activate Your Account", body)
}

func (s *GomailSender) SendPasswordReset(ctx context.Context, to, code string) error {
	link := fmt.Sprintf("%s/resetpass/%s/%s", s.cfg.ServerAddress, to, code)
	body := fmt.Sprintf(`<h2>Stream Haven Password Reset</h2>
<p>We received a request to reset your password. Click the link below to proceed:</p>
<p><a href="%s">Reset My Password</a></p>
<p>If you didn't request this, you can safely ignore this email.</p>
<p>This link expires in 10 minutes.</p>`, link)
	return s.send(to, "Stream Haven Password Reset", body)
}

func (s *GomailSender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.User)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	return d.DialAndSend(m)
}
