package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"
)

// AppointmentDetails is the data rendered into appointment emails.
type AppointmentDetails struct {
	ID            string
	ServiceName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	Notes         string
	StartTime     time.Time
	EndTime       time.Time
}

// LeadDetails is the data rendered into the new-lead email.
type LeadDetails struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Address     string
	ServiceName string
	Message     string
}

// Notifier sends the transactional emails of the booking flow.
type Notifier interface {
	// AppointmentRequested confirms receipt to the customer and alerts the business.
	AppointmentRequested(ctx context.Context, a AppointmentDetails) error
	AppointmentReminder(ctx context.Context, a AppointmentDetails) error
	LeadReceived(ctx context.Context, l LeadDetails) error
}

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
	"clock": func(t time.Time) string { return t.Format("3:04 PM") },
}).Parse(`
{{define "requested_subject"}}We received your {{.ServiceName}} request{{end}}
{{define "requested_body"}}Hi {{.CustomerName}},

Thanks for booking with us. We received your request for a {{.ServiceName}} on {{date .StartTime}} from {{clock .StartTime}} to {{clock .EndTime}}.
We will confirm your appointment shortly.

Reference: {{.ID}}
{{end}}

{{define "admin_appointment_subject"}}New appointment: {{.ServiceName}} on {{date .StartTime}}{{end}}
{{define "admin_appointment_body"}}A new appointment is waiting for confirmation.

Service:  {{.ServiceName}}
When:     {{date .StartTime}} {{clock .StartTime}} - {{clock .EndTime}}
Customer: {{.CustomerName}} <{{.CustomerEmail}}>{{if .CustomerPhone}} / {{.CustomerPhone}}{{end}}
Address:  {{.Address}}
{{- if .Notes}}
Notes:    {{.Notes}}
{{- end}}

Reference: {{.ID}}
{{end}}

{{define "reminder_subject"}}Reminder: {{.ServiceName}} tomorrow at {{clock .StartTime}}{{end}}
{{define "reminder_body"}}Hi {{.CustomerName}},

This is a reminder that your {{.ServiceName}} is scheduled for {{date .StartTime}} at {{clock .StartTime}}.
Address: {{.Address}}

Reference: {{.ID}}
{{end}}

{{define "lead_subject"}}New quote request from {{.Name}}{{end}}
{{define "lead_body"}}Name:    {{.Name}}
Email:   {{.Email}}
{{- if .Phone}}
Phone:   {{.Phone}}
{{- end}}
{{- if .Address}}
Address: {{.Address}}
{{- end}}
{{- if .ServiceName}}
Service: {{.ServiceName}}
{{- end}}

{{.Message}}
{{end}}
`))

// Mailer renders templates and hands messages to a Sender.
type Mailer struct {
	sender     Sender
	adminEmail string
	loc        *time.Location
}

var _ Notifier = (*Mailer)(nil)

// NewMailer returns a Mailer. Business alerts are skipped when adminEmail is empty.
// Appointment times are rendered in loc.
func NewMailer(sender Sender, adminEmail string, loc *time.Location) *Mailer {
	if loc == nil {
		loc = time.UTC
	}
	return &Mailer{sender: sender, adminEmail: adminEmail, loc: loc}
}

func (m *Mailer) AppointmentRequested(ctx context.Context, a AppointmentDetails) error {
	a = m.localize(a)

	var errs []error
	if err := m.send(ctx, a.CustomerEmail, "requested", a); err != nil {
		errs = append(errs, err)
	}
	if m.adminEmail != "" {
		if err := m.send(ctx, m.adminEmail, "admin_appointment", a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Mailer) AppointmentReminder(ctx context.Context, a AppointmentDetails) error {
	return m.send(ctx, a.CustomerEmail, "reminder", m.localize(a))
}

func (m *Mailer) LeadReceived(ctx context.Context, l LeadDetails) error {
	if m.adminEmail == "" {
		return nil
	}
	return m.send(ctx, m.adminEmail, "lead", l)
}

func (m *Mailer) localize(a AppointmentDetails) AppointmentDetails {
	a.StartTime = a.StartTime.In(m.loc)
	a.EndTime = a.EndTime.In(m.loc)
	return a
}

func (m *Mailer) send(ctx context.Context, to, name string, data any) error {
	msg, err := render(to, name, data)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

func render(to, name string, data any) (Message, error) {
	var subject, body bytes.Buffer
	if err := templates.ExecuteTemplate(&subject, name+"_subject", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := templates.ExecuteTemplate(&body, name+"_body", data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", name, err)
	}
	return Message{To: to, Subject: headerValue(subject.String()), Body: body.String()}, nil
}
