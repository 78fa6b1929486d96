package publisher

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/report"
)

const smtpTimeout = 30 * time.Second

// EmailPublisher sends the digest as an HTML email via SMTP.
type EmailPublisher struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	timeout  time.Duration
}

func NewEmailPublisher(host string, port int, username, password, from string, to []string) *EmailPublisher {
	return &EmailPublisher{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		timeout:  smtpTimeout,
	}
}

func (p *EmailPublisher) Publish(ctx context.Context, digest *report.Digest) error {
	body := buildHTMLBody(digest)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		p.from,
		strings.Join(p.to, ","),
		digest.Subject,
		body,
	)

	if err := p.send(ctx, []byte(msg)); err != nil {
		return fmt.Errorf("email: failed to send: %w", err)
	}

	return nil
}

// send follows the smtp.SendMail sequence, but dials with the
// publisher's timeout and puts a deadline on the connection so a
// stalled server cannot hang the run.
func (p *EmailPublisher) send(ctx context.Context, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(p.timeout)
	if t, ok := ctx.Deadline(); ok && t.Before(deadline) {
		deadline = t
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}

	c, err := smtp.NewClient(conn, p.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: p.host}); err != nil {
			return err
		}
	}
	if p.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", p.username, p.password, p.host)
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(p.from); err != nil {
		return err
	}
	for _, rcpt := range p.to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildHTMLBody(digest *report.Digest) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html><head><style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px; color: #333; }
h1 { color: #1a1a2e; border-bottom: 2px solid #e94560; padding-bottom: 10px; }
h2 { color: #16213e; }
.meta { color: #666; font-size: 0.9em; margin-bottom: 20px; }
.note { border: 1px solid #ddd; border-radius: 8px; padding: 15px; margin-bottom: 15px; }
.note h3 { margin-top: 0; color: #0f3460; }
.truncated { color: #b33; font-size: 0.85em; }
.summary { white-space: pre-wrap; }
</style></head><body>`)

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>", htmlEscape(digest.Subject)))
	sb.WriteString(fmt.Sprintf(`<div class="meta">%s to %s &middot; %d notes</div>`,
		digest.Window.Start.Format("2006-01-02 15:04"),
		digest.Window.End.Format("2006-01-02 15:04"),
		digest.NoteCount,
	))

	if digest.Empty() {
		sb.WriteString("<p>No tagged notes were updated in this period.</p>")
	}

	for _, r := range digest.Results {
		sb.WriteString(`<div class="note">`)
		sb.WriteString(fmt.Sprintf("<h3>%s</h3>", htmlEscape(strings.Join(r.NoteTitles, ", "))))
		if r.Truncated {
			sb.WriteString(`<div class="truncated">Note content was truncated to fit the summarization budget.</div>`)
		}
		sb.WriteString(fmt.Sprintf(`<div class="summary">%s</div>`, htmlEscape(r.Summary)))
		sb.WriteString("</div>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
