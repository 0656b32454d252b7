package alert

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime/multipart"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/newsscope/newswatch/internal/config"
	"github.com/newsscope/newswatch/internal/models"
)

// Mailer delivers one alert notification.
type Mailer interface {
	Send(ctx context.Context, alert *models.PIBAlert, article *models.Article) error
}

// emailData is the template context for both body parts.
type emailData struct {
	Title          string
	Source         string
	Language       string
	SentimentScore string
	Schemes        string
	Region         string
	Link           string
	ReviewLink     string
	CollectedAt    string
}

const textBody = `Negative coverage detected for a government scheme.

Title:     {{.Title}}
Source:    {{.Source}}
Language:  {{.Language}}
Sentiment: {{.SentimentScore}} (negative)
Schemes:   {{.Schemes}}
{{if .Region}}Region:    {{.Region}}
{{end}}Collected: {{.CollectedAt}}

Article: {{.Link}}
Review:  {{.ReviewLink}}
`

const htmlBody = `<html><body>
<h2 style="color:#b91c1c">Negative coverage detected</h2>
<table cellpadding="4">
<tr><td><b>Title</b></td><td>{{.Title}}</td></tr>
<tr><td><b>Source</b></td><td>{{.Source}}</td></tr>
<tr><td><b>Language</b></td><td>{{.Language}}</td></tr>
<tr><td><b>Sentiment</b></td><td>{{.SentimentScore}} (negative)</td></tr>
<tr><td><b>Schemes</b></td><td>{{.Schemes}}</td></tr>
{{if .Region}}<tr><td><b>Region</b></td><td>{{.Region}}</td></tr>
{{end}}<tr><td><b>Collected</b></td><td>{{.CollectedAt}}</td></tr>
</table>
<p><a href="{{.Link}}">Read the article</a> |
<a href="{{.ReviewLink}}">Review this alert</a></p>
</body></html>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
	htmlTmpl = template.Must(template.New("html").Parse(htmlBody))
)

// subjectFor builds the notification subject line.
func subjectFor(alert *models.PIBAlert, article *models.Article) string {
	scheme := "Government Scheme"
	if len(article.GOISchemes) > 0 {
		scheme = article.GOISchemes[0]
	}
	title := alert.Title
	if r := []rune(title); len(r) > 60 {
		title = string(r[:60]) + "..."
	}
	return fmt.Sprintf("Negative News Alert: %s: %s", scheme, title)
}

// renderBody produces the plain and HTML parts for one alert.
func renderBody(frontendURL string, alert *models.PIBAlert, article *models.Article) (string, string, error) {
	data := emailData{
		Title:          alert.Title,
		Source:         article.Source,
		Language:       alert.Language,
		SentimentScore: strconv.FormatFloat(alert.SentimentScore, 'f', 2, 64),
		Schemes:        strings.Join(article.GOISchemes, ", "),
		Region:         article.Region,
		Link:           alert.Link,
		ReviewLink:     strings.TrimRight(frontendURL, "/") + "/alerts/" + alert.ID.String(),
		CollectedAt:    article.CollectedAt.UTC().Format(time.RFC1123),
	}

	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	return text.String(), html.String(), nil
}

// smtpMailer submits alert mail over SMTP with STARTTLS.
type smtpMailer struct {
	cfg         config.SMTPConfig
	frontendURL string
	recipient   string
}

// NewSMTPMailer builds the production mailer.
func NewSMTPMailer(smtpCfg config.SMTPConfig, alertCfg config.AlertConfig) Mailer {
	return &smtpMailer{cfg: smtpCfg, frontendURL: alertCfg.FrontendURL, recipient: alertCfg.RecipientEmail}
}

func (m *smtpMailer) Send(ctx context.Context, alert *models.PIBAlert, article *models.Article) error {
	if m.recipient == "" {
		return fmt.Errorf("smtp: no recipient configured")
	}

	text, html, err := renderBody(m.frontendURL, alert, article)
	if err != nil {
		return err
	}
	msg, err := buildMessage(m.cfg.FromEmail, m.recipient, subjectFor(alert, article), text, html)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Server, strconv.Itoa(m.cfg.Port))

	dialer := net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer client.Close()

	if m.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Server}); err != nil {
			return fmt.Errorf("smtp: starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Server)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	if err := client.Rcpt(m.recipient); err != nil {
		return fmt.Errorf("smtp: rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: close body: %w", err)
	}
	return client.Quit()
}

// buildMessage assembles a multipart/alternative MIME message with plain and
// HTML parts.
func buildMessage(from, to, subject, text, html string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	textPart, err := mw.CreatePart(map[string][]string{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("smtp: text part: %w", err)
	}
	if _, err := textPart.Write([]byte(text)); err != nil {
		return nil, fmt.Errorf("smtp: text part: %w", err)
	}

	htmlPart, err := mw.CreatePart(map[string][]string{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("smtp: html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(html)); err != nil {
		return nil, fmt.Errorf("smtp: html part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("smtp: finish message: %w", err)
	}
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
