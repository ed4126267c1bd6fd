package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/cinemood/auth-server/internal/model"
)

const defaultSMTPTimeout = 10 * time.Second

var _ model.Notifier = (*SMTP)(nil)

// SMTPOptions contains outgoing mail server parameters.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Timeout bounds a whole delivery: dial, greeting and every command.
	Timeout time.Duration
	// CodeTTL is the code lifetime quoted in the message body.
	CodeTTL time.Duration
}

// SMTP delivers verification codes by email.
type SMTP struct {
	host    string
	addr    string
	auth    smtp.Auth
	from    string
	timeout time.Duration
	codeTTL time.Duration
	dialer  net.Dialer
}

func NewSMTP(opts SMTPOptions) *SMTP {
	var auth smtp.Auth
	if opts.Username != "" {
		auth = smtp.PlainAuth("", opts.Username, opts.Password, opts.Host)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	codeTTL := opts.CodeTTL
	if codeTTL <= 0 {
		codeTTL = model.VerificationCodeTTL
	}

	return &SMTP{
		host:    opts.Host,
		addr:    net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		auth:    auth,
		from:    opts.From,
		timeout: timeout,
		codeTTL: codeTTL,
	}
}

// SendVerificationCode delivers code to email. It gives up once the
// configured timeout elapses or ctx is done.
func (n *SMTP) SendVerificationCode(ctx context.Context, email, subject, code string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.deliver(ctx, email, buildMessage(n.from, email, subject, code, n.codeTTL)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("failed to send verification email: %w", ctxErr)
		}
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (n *SMTP) deliver(ctx context.Context, to string, msg []byte) error {
	conn, err := n.dialer.DialContext(ctx, "tcp", n.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if n.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(n.auth); err != nil {
			return err
		}
	}

	if err := c.Mail(n.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
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

func buildMessage(from, to, subject, code string, ttl time.Duration) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("Your verification code is " + code + ".\r\n")
	b.WriteString("It expires in " + humanDuration(ttl) + ".\r\n")
	return []byte(b.String())
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int((d+time.Second-1)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
