package mailer

import (
	"bytes"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"booking_confirmed.html": {Data: []byte(`<p>Hi {{.ClientName}}, see you on {{.Date}} at {{.StartTime}}. Token {{.CancelToken}}</p>`)},
		"booking_cancelled.html": {Data: []byte(`<p>Hi {{.ClientName}}, {{.Date}} {{.StartTime}} is cancelled.</p>`)},
		"barber_welcome.html":    {Data: []byte(`<p>Welcome {{.FullName}}</p>`)},
	}
}

func TestNewBuilderMissingTemplate(t *testing.T) {
	fsys := testFS()
	delete(fsys, "barber_welcome.html")

	_, err := NewBuilder(fsys, "Barber Booking", "noreply@example.com")
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	b, err := NewBuilder(testFS(), "Barber Booking", "noreply@example.com")
	require.NoError(t, err)

	body, err := json.Marshal(domain.MailMessage{
		Type: domain.MailBookingConfirmed,
		To:   "ana@example.com",
		Data: domain.BookingConfirmedMailData{
			ClientName:     "Ana",
			BarbershopName: "Barbearia do Ze",
			Date:           "2026-10-20",
			StartTime:      "09:30",
			CancelToken:    "abc123",
		},
	})
	require.NoError(t, err)

	msg, err := b.Build(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"Barbearia do Ze - your appointment is confirmed"}, msg.GetGenHeader(mail.HeaderSubject))
	to, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, to)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "abc123")
}

func TestBuildRejects(t *testing.T) {
	b, err := NewBuilder(testFS(), "Barber Booking", "noreply@example.com")
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown type", `{"type":"newsletter","to":"a@example.com","data":{}}`},
		{"bad recipient", `{"type":"barber_welcome","to":"not-an-address","data":{"fullName":"Tony"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
