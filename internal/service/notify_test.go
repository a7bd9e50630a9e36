package service

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"teamops/internal/config"
	"teamops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	from string
	to   []string
	msg  string
}

type mailbox struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (b *mailbox) send(_ context.Context, from string, to []string, msg []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMail{from: from, to: to, msg: string(msg)})
	return b.err
}

type staticEmails map[string]string

func (s staticEmails) Emails(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if e, ok := s[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func mailConfig(enabled bool) config.MailConfig {
	cfg := config.Default().Mail
	cfg.Enabled = enabled
	return cfg
}

func testMeeting(participants ...string) model.Meeting {
	m := model.Meeting{
		Title: "Weekly Recap", Date: "2024-05-03", Time: "16:00", Duration: "45",
		Participants: participants, Agenda: []string{"Wins", "Misses"},
	}
	m.ID = "meeting-1"
	return m
}

func TestMailNotifierSends(t *testing.T) {
	box := &mailbox{}
	n := NewMailNotifier(mailConfig(true), staticEmails{"m-1": "ana@example.com", "m-2": "bo@example.com"}).
		WithSender(box.send)

	n.MeetingCreated(testMeeting("m-1", "guest@example.com", "m-unknown", "guest@example.com", "m-2"))
	n.Wait()

	require.Len(t, box.sent, 1)
	mail := box.sent[0]
	assert.Equal(t, config.Default().Mail.From, mail.from)
	assert.Equal(t, []string{"guest@example.com", "ana@example.com", "bo@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: New Meeting: Weekly Recap\r\n")
	assert.Contains(t, mail.msg, "1. Wins\n2. Misses\n")
	assert.Contains(t, mail.msg, "Duration: 45 minutes")
}

func TestMailNotifierDisabled(t *testing.T) {
	box := &mailbox{}
	n := NewMailNotifier(mailConfig(false), nil).WithSender(box.send)
	n.MeetingCreated(testMeeting("guest@example.com"))
	n.Wait()
	assert.Empty(t, box.sent)
}

func TestMailNotifierSkipsWithoutRecipients(t *testing.T) {
	box := &mailbox{}
	n := NewMailNotifier(mailConfig(true), staticEmails{}).WithSender(box.send)
	n.MeetingCreated(testMeeting("m-unknown", " "))
	n.Wait()
	assert.Empty(t, box.sent)
}

func TestMailNotifierSwallowsSendErrors(t *testing.T) {
	box := &mailbox{err: errors.New("smtp down")}
	n := NewMailNotifier(mailConfig(true), nil).WithSender(box.send)
	assert.NotPanics(t, func() {
		n.MeetingCreated(testMeeting("guest@example.com"))
		n.Wait()
	})
	assert.Len(t, box.sent, 1)
}

func TestMeetingCreateNotifiesMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, err := f.team.Create(ctx, body(t, map[string]any{
		"name": "Ana", "department": "marketing", "jobTitle": "Lead", "email": "ana@example.com",
	}), actor)
	require.NoError(t, err)

	box := &mailbox{}
	n := NewMailNotifier(mailConfig(true), f.team).WithSender(box.send)
	meetings := NewMeetingService(f.db, f.audit, n)
	_, err = meetings.Create(ctx, body(t, map[string]any{
		"type": "marketing", "date": "2024-05-06", "time": "10:00", "participants": []string{ana.ID},
	}), actor)
	require.NoError(t, err)
	n.Wait()

	require.Len(t, box.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, box.sent[0].to)
	assert.True(t, strings.Contains(box.sent[0].msg, "Subject: New Meeting: Marketing Meeting"))
}

func TestMailNotifierKeepsTitleInSubject(t *testing.T) {
	box := &mailbox{}
	n := NewMailNotifier(mailConfig(true), nil).WithSender(box.send)
	m := testMeeting("guest@example.com")
	m.Title = "Weekly\r\nBcc: outsider@evil.example"
	n.MeetingCreated(m)
	n.Wait()

	require.Len(t, box.sent, 1)
	head, _, found := strings.Cut(box.sent[0].msg, "\r\n\r\n")
	require.True(t, found)
	lines := strings.Split(head, "\r\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[2], "Subject: =?utf-8?q?"), lines[2])
	for _, l := range lines {
		assert.False(t, strings.HasPrefix(l, "Bcc:"), l)
	}
}

func TestMailNotifierDropsMalformedAddresses(t *testing.T) {
	box := &mailbox{}
	n := NewMailNotifier(mailConfig(true), staticEmails{"m-1": "ana@example.com\r\nBcc: x@evil.example"}).
		WithSender(box.send)
	n.MeetingCreated(testMeeting("guest@example.com\nCc: x@evil.example", "m-1", "Bo <bo@example.com>"))
	n.Wait()

	require.Len(t, box.sent, 1)
	assert.Equal(t, []string{"bo@example.com"}, box.sent[0].to)
}

func TestMailNotifierGivesUpOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	held := make(chan net.Conn, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			held <- conn // accepted, never greeted
		}
	}()
	defer func() {
		ln.Close()
		for {
			select {
			case c := <-held:
				c.Close()
			default:
				return
			}
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	cfg := mailConfig(true)
	cfg.SMTPHost = host
	cfg.SMTPPort, err = strconv.Atoi(port)
	require.NoError(t, err)

	n := NewMailNotifier(cfg, nil)
	n.timeout = 200 * time.Millisecond
	n.MeetingCreated(testMeeting("guest@example.com"))

	done := make(chan struct{})
	go func() {
		n.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("delivery still pending long after the notifier timeout")
	}
}
