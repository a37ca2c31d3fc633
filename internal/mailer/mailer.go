package mailer

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

type kind struct {
	template string
	subject  func(data any) string
	newData  func() any
}

var kinds = map[string]kind{
	domain.MailBookingConfirmed: {
		template: "booking_confirmed.html",
		subject: func(data any) string {
			return fmt.Sprintf("%s - your appointment is confirmed", data.(*domain.BookingConfirmedMailData).BarbershopName)
		},
		newData: func() any { return &domain.BookingConfirmedMailData{} },
	},
	domain.MailBookingCancelled: {
		template: "booking_cancelled.html",
		subject: func(data any) string {
			return fmt.Sprintf("%s - your appointment was cancelled", data.(*domain.BookingCancelledMailData).BarbershopName)
		},
		newData: func() any { return &domain.BookingCancelledMailData{} },
	},
	domain.MailBarberWelcome: {
		template: "barber_welcome.html",
		subject: func(data any) string {
			return fmt.Sprintf("Welcome to %s", data.(*domain.BarberWelcomeMailData).BarbershopName)
		},
		newData: func() any { return &domain.BarberWelcomeMailData{} },
	},
}

type envelope struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// Builder turns queued mail messages into ready-to-send go-mail messages.
type Builder struct {
	fromName    string
	fromAddress string
	templates   map[string]*template.Template
}

// NewBuilder parses every template up front so a missing file fails at
// startup instead of on the first message.
func NewBuilder(fsys fs.FS, fromName, fromAddress string) (*Builder, error) {
	b := &Builder{
		fromName:    fromName,
		fromAddress: fromAddress,
		templates:   make(map[string]*template.Template, len(kinds)),
	}

	for mailType, k := range kinds {
		tmpl, err := template.ParseFS(fsys, k.template)
		if err != nil {
			return nil, fmt.Errorf("parse template for %s: %w", mailType, err)
		}
		b.templates[mailType] = tmpl
	}

	return b, nil
}

// Build decodes one queue message body. Errors are permanent: retrying the
// same body cannot succeed.
func (b *Builder) Build(body []byte) (*mail.Msg, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode mail message: %w", err)
	}

	k, ok := kinds[env.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mail type %q", env.Type)
	}

	data := k.newData()
	if err := json.Unmarshal(env.Data, data); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", env.Type, err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(b.fromName, b.fromAddress); err != nil {
		return nil, err
	}
	if err := msg.To(env.To); err != nil {
		return nil, err
	}
	msg.Subject(k.subject(data))
	if err := msg.SetBodyHTMLTemplate(b.templates[env.Type], data); err != nil {
		return nil, err
	}

	return msg, nil
}
