package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

// RequestDecisionHTML 入团申请处理结果邮件
func RequestDecisionHTML(userName, clubName string, approved bool) string {
	result := "rejected"
	if approved {
		result = "approved"
	}
	return fmt.Sprintf(`<p>Hello %s,</p><p>Your request to join <b>%s</b> has been <b>%s</b>.</p>`,
		html.EscapeString(userName), html.EscapeString(clubName), result)
}
