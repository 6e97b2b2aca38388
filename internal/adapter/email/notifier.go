// Package email delivers addressed reminders and escalations over SMTP.
package email

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Strob0t/followup/internal/port/notifier"
)

const providerName = "email"

// SMTPConfig holds the configuration for SMTP connections.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier sends plain-text e-mail via SMTP.
type Notifier struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

func init() {
	notifier.Register(providerName, func(settings map[string]string) (notifier.Notifier, error) {
		if settings["host"] == "" || settings["from"] == "" {
			return nil, notifier.ErrNotConfigured
		}
		port := 587
		if p := settings["port"]; p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("email port %q: %w", p, err)
			}
			port = n
		}
		return NewNotifier(SMTPConfig{
			Host:     settings["host"],
			Port:     port,
			Username: settings["username"],
			Password: settings["password"],
			From:     settings["from"],
		}), nil
	})
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg SMTPConfig) *Notifier {
	return &Notifier{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

func (n *Notifier) Name() string { return providerName }

func (n *Notifier) Capabilities() notifier.Capabilities {
	return notifier.Capabilities{Addressed: true}
}

// Send delivers nf to nf.Recipient. net/smtp has no context support, so ctx is
// only checked before dialing.
func (n *Notifier) Send(ctx context.Context, nf notifier.Notification) error {
	if n.cfg.Host == "" || n.cfg.From == "" {
		return notifier.ErrNotConfigured
	}
	if nf.Recipient == "" {
		return fmt.Errorf("email: notification %q has no recipient", nf.Title)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	var auth smtp.Auth
	if n.cfg.Password != "" {
		user := n.cfg.Username
		if user == "" {
			user = n.cfg.From
		}
		auth = smtp.PlainAuth("", user, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(addr, auth, n.cfg.From, []string{nf.Recipient}, n.compose(nf)); err != nil {
		return fmt.Errorf("email send to %s: %w", nf.Recipient, err)
	}
	return nil
}

func (n *Notifier) compose(nf notifier.Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", nf.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", nf.Title))
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	if nf.Source != "" {
		fmt.Fprintf(&b, "X-Followup-Source: %s\r\n", nf.Source)
	}
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(nf.Message, "\n", "\r\n"))
	return []byte(b.String())
}
