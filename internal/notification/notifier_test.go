package notification

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

var est = time.FixedZone("EST", -5*60*60)

func sampleAppointment() AppointmentDetails {
	return AppointmentDetails{
		ID:            "a-1",
		ServiceName:   "Deep Clean",
		CustomerName:  "Dana",
		CustomerEmail: "dana@example.com",
		Address:       "12 Elm St",
		// 15:00 UTC is 10:00 EST.
		StartTime: time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC),
	}
}

func TestMailer_AppointmentRequested(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "owner@example.com", est)

	require.NoError(t, m.AppointmentRequested(context.Background(), sampleAppointment()))
	require.Len(t, sender.sent, 2)

	customer := sender.sent[0]
	assert.Equal(t, "dana@example.com", customer.To)
	assert.Equal(t, "We received your Deep Clean request", customer.Subject)
	assert.Contains(t, customer.Body, "Hi Dana,")
	assert.Contains(t, customer.Body, "Monday, March 9, 2026 from 10:00 AM to 1:00 PM")

	admin := sender.sent[1]
	assert.Equal(t, "owner@example.com", admin.To)
	assert.Contains(t, admin.Subject, "New appointment: Deep Clean")
	assert.Contains(t, admin.Body, "12 Elm St")
	assert.NotContains(t, admin.Body, "Notes:")
}

func TestMailer_SkipsAdminWhenUnset(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "", est)

	require.NoError(t, m.AppointmentRequested(context.Background(), sampleAppointment()))
	assert.Len(t, sender.sent, 1)

	require.NoError(t, m.LeadReceived(context.Background(), LeadDetails{Name: "Sam"}))
	assert.Len(t, sender.sent, 1)
}

func TestMailer_ReturnsSenderErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("relay down")}
	m := NewMailer(sender, "owner@example.com", est)

	err := m.AppointmentRequested(context.Background(), sampleAppointment())
	require.Error(t, err)
	assert.Len(t, sender.sent, 2, "admin is still attempted after the customer send fails")
}

func TestMailer_Reminder(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "owner@example.com", est)

	require.NoError(t, m.AppointmentReminder(context.Background(), sampleAppointment()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Reminder: Deep Clean tomorrow at 10:00 AM", sender.sent[0].Subject)
}

func TestMailer_LeadReceived(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "owner@example.com", est)

	require.NoError(t, m.LeadReceived(context.Background(), LeadDetails{
		Name:    "Sam",
		Email:   "sam@example.com",
		Message: "Quote for a 3-bedroom move-out please",
	}))
	require.Len(t, sender.sent, 1)
	body := sender.sent[0].Body
	assert.Contains(t, body, "sam@example.com")
	assert.Contains(t, body, "3-bedroom move-out")
	assert.NotContains(t, body, "Phone:")
}

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("from@example.com", Message{To: "to@example.com", Subject: "Hi", Body: "a\nb"}))
	assert.True(t, strings.HasPrefix(raw, "From: from@example.com\r\nTo: to@example.com\r\nSubject: Hi\r\n"))
	assert.Contains(t, raw, "\r\n\r\na\r\nb\r\n")
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(zap.NewNop())
	assert.NoError(t, s.Send(context.Background(), Message{To: "x@example.com"}))
}

func TestBuildMessage_NameCannotAddHeaders(t *testing.T) {
	sender := &recordingSender{}
	m := NewMailer(sender, "owner@example.com", est)

	require.NoError(t, m.LeadReceived(context.Background(), LeadDetails{
		ID:    "l-1",
		Name:  "Eve\r\nBcc: victim@evil.test\r\nReply-To: eve@evil.test",
		Email: "eve@example.com",
	}))
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].Subject, "\n")

	raw := buildMessage("from@example.com", sender.sent[0])
	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	assert.Empty(t, parsed.Header.Get("Bcc"))
	assert.Empty(t, parsed.Header.Get("Reply-To"))
	assert.Equal(t, "owner@example.com", parsed.Header.Get("To"))
	assert.Equal(t, "text/plain; charset=utf-8", parsed.Header.Get("Content-Type"))
	assert.Contains(t, parsed.Header.Get("Subject"), "New quote request from Eve")
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	raw := string(buildMessage("from@example.com", Message{To: "to@example.com\r\nCc: x@evil.test", Subject: "Rendez-vous confirmé"}))

	assert.Contains(t, raw, "To: to@example.com Cc: x@evil.test\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?Rendez-vous_confirm=C3=A9?=\r\n")
}
