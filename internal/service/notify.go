package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"

	"teamops/internal/config"
	"teamops/internal/logger"
	"teamops/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "teamops_notifications_total",
	Help: "Meeting notification attempts by result.",
}, []string{"result"})

// EmailResolver maps team member ids to addresses.
type EmailResolver interface {
	Emails(ctx context.Context, ids []string) (map[string]string, error)
}

// SendFunc delivers one message to a list of recipients. It must give up
// once ctx is done.
type SendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// MailNotifier emails participants when a meeting is created. Delivery runs
// in the background and never reports back to the caller.
type MailNotifier struct {
	cfg     config.MailConfig
	members EmailResolver
	send    SendFunc
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewMailNotifier(cfg config.MailConfig, members EmailResolver) *MailNotifier {
	n := &MailNotifier{cfg: cfg, members: members, timeout: 30 * time.Second}
	n.send = n.sendSMTP
	return n
}

// WithSender replaces SMTP delivery.
func (n *MailNotifier) WithSender(fn SendFunc) *MailNotifier {
	n.send = fn
	return n
}

func (n *MailNotifier) MeetingCreated(m model.Meeting) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.deliver(ctx, m)
	}()
}

// Wait blocks until pending deliveries finish.
func (n *MailNotifier) Wait() { n.wg.Wait() }

func (n *MailNotifier) deliver(ctx context.Context, m model.Meeting) {
	to, err := n.recipients(ctx, m.Participants)
	if err != nil {
		notifications.WithLabelValues("error").Inc()
		logger.Warn("meeting.notify.resolve_failed", "meeting", m.ID, "err", err)
		return
	}
	if len(to) == 0 {
		notifications.WithLabelValues("skipped").Inc()
		return
	}

	subject := "New Meeting: " + m.Title
	if !n.cfg.Enabled {
		notifications.WithLabelValues("disabled").Inc()
		logger.Info("meeting.notify.disabled", "meeting", m.ID, "subject", subject, "recipients", len(to))
		return
	}

	msg := buildMessage(n.cfg.From, to, subject, meetingBody(m))
	if err := n.send(ctx, n.cfg.From, to, msg); err != nil {
		notifications.WithLabelValues("error").Inc()
		logger.Warn("meeting.notify.failed", "meeting", m.ID, "err", err)
		return
	}
	notifications.WithLabelValues("sent").Inc()
	logger.Info("meeting.notify.sent", "meeting", m.ID, "recipients", len(to))
}

// recipients keeps participants that already look like addresses and looks
// the rest up as team member ids. Unknown ids are dropped.
func (n *MailNotifier) recipients(ctx context.Context, participants []string) ([]string, error) {
	var (
		to   []string
		ids  []string
		seen = map[string]bool{}
	)
	for _, p := range participants {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.Contains(p, "@"):
			if a, ok := address(p); ok && !seen[a] {
				seen[a] = true
				to = append(to, a)
			}
		default:
			ids = append(ids, p)
		}
	}
	if len(ids) == 0 || n.members == nil {
		return to, nil
	}
	emails, err := n.members.Emails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		e, ok := address(emails[id])
		if ok && !seen[e] {
			seen[e] = true
			to = append(to, e)
		}
	}
	return to, nil
}

// address returns the bare address in s, or false when s is not a single
// well-formed address.
func address(s string) (string, bool) {
	if s == "" || strings.ContainsAny(s, "\r\n") {
		return "", false
	}
	a, err := mail.ParseAddress(s)
	if err != nil {
		return "", false
	}
	return a.Address, true
}

// sendSMTP runs the SMTP dialogue over a connection bound to ctx: the dial,
// every read and write, and the final QUIT all stop at ctx's deadline.
func (n *MailNotifier) sendSMTP(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(n.cfg.SMTPHost, strconv.Itoa(n.cfg.SMTPPort))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, n.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.cfg.SMTPHost}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("end data: %w", err)
	}
	return c.Quit()
}

func meetingBody(m model.Meeting) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A new meeting has been scheduled.\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", m.Title)
	fmt.Fprintf(&sb, "Date: %s\n", m.Date)
	fmt.Fprintf(&sb, "Time: %s\n", m.Time)
	if m.Duration != "" {
		fmt.Fprintf(&sb, "Duration: %s minutes\n", m.Duration)
	}
	if m.Description != nil && *m.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", *m.Description)
	}
	if len(m.Agenda) > 0 {
		sb.WriteString("\nAgenda:\n")
		for i, item := range m.Agenda {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
		}
	}
	return sb.String()
}

func buildMessage(from string, to []string, subject, body string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}
	return []byte(strings.Join(headers, "\r\n"))
}
