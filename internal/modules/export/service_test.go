package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/session"
)

type fakeMailer struct {
	sent []Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newScope(t *testing.T) *session.Scope {
	t.Helper()
	svc := session.NewService(session.NewMemoryStore(), nil)
	sc, err := svc.Scope("3f0c8f4e-8f43-4c3c-9a55-0f7f0e4f1a01")
	require.NoError(t, err)
	return sc
}

func saveItinerary(t *testing.T, sc *session.Scope, it itinerary.Itinerary) {
	t.Helper()
	ctx := context.Background()
	seq, err := sc.Begin(ctx)
	require.NoError(t, err)
	ok, err := sc.SetCurrent(ctx, seq, it)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEmail_NoItineraryBeatsNotLoggedIn(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, nil)

	err := svc.Email(context.Background(), newScope(t))
	assert.ErrorIs(t, err, ErrNoItinerary)
	assert.Empty(t, mailer.sent)
}

func TestEmail_NotLoggedIn(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, nil)
	sc := newScope(t)
	saveItinerary(t, sc, itinerary.FromStops([]itinerary.Stop{{Time: "09:00", Name: "Cafe"}}))

	err := svc.Email(context.Background(), sc)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, mailer.sent)
}

func TestEmail_SendsStops(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, nil)
	sc := newScope(t)
	ctx := context.Background()

	saveItinerary(t, sc, itinerary.FromStops([]itinerary.Stop{{
		Time:            "09:00",
		Name:            "Fushimi <Inari>",
		Type:            itinerary.StopPlace,
		DurationMinutes: itinerary.Minutes(120),
		MapsQuery:       "Fushimi Inari, Kyoto",
	}}))
	require.NoError(t, sc.Login(ctx, "Traveler@Example.com"))

	require.NoError(t, svc.Email(ctx, sc))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "traveler@example.com", msg.To)
	assert.Equal(t, subject, msg.Subject)
	assert.Contains(t, msg.Text, "Fushimi <Inari>")
	assert.Contains(t, msg.HTML, "Fushimi &lt;Inari&gt;")
	assert.Contains(t, msg.HTML, "place, 120 min")
	assert.Contains(t, msg.HTML, "https://www.google.com/maps/search/")
}

func TestEmail_SendsRawTextMarkup(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, nil)
	sc := newScope(t)
	ctx := context.Background()

	raw := "## Day 1\n- Visit the castle"
	saveItinerary(t, sc, itinerary.FromText(raw, itinerary.MarkupText(raw)))
	require.NoError(t, sc.Login(ctx, "a@b.co"))

	require.NoError(t, svc.Email(ctx, sc))
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTML, "<h4>Day 1</h4>")
	assert.Contains(t, mailer.sent[0].Text, raw)
}

func TestEmail_DeliveryFailureIsWrapped(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("connection refused")}
	svc := NewService(mailer, nil)
	sc := newScope(t)
	ctx := context.Background()

	saveItinerary(t, sc, itinerary.FromStops([]itinerary.Stop{{Time: "09:00", Name: "Cafe"}}))
	require.NoError(t, sc.Login(ctx, "a@b.co"))

	err := svc.Email(ctx, sc)
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestBuildMessage_MultipartAlternative(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	body := string(buildMessage(`"Voyage" <no-reply@voyage.test>`, Message{
		To: "a@b.co", Subject: "Hi", Text: "plain", HTML: "<p>html</p>",
	}, at))

	assert.True(t, strings.HasPrefix(body, "From: \"Voyage\" <no-reply@voyage.test>\r\n"))
	assert.Contains(t, body, "To: a@b.co\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain; charset=UTF-8")
	assert.Contains(t, body, "<p>html</p>")
	assert.True(t, strings.HasSuffix(body, "--\r\n"))
}

func TestSMTPMailer_FromHeader(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{From: "no-reply@voyage.test"})
	assert.Equal(t, "no-reply@voyage.test", m.fromHeader())
	assert.Equal(t, 587, m.cfg.Port)

	m = NewSMTPMailer(SMTPConfig{From: "no-reply@voyage.test", FromName: "Voyage"})
	assert.Equal(t, `"Voyage" <no-reply@voyage.test>`, m.fromHeader())
}

func TestBuildMessage_LongLinesAreWrapped(t *testing.T) {
	long := strings.Repeat("Kiyomizu-dera ", 300)
	body := string(buildMessage("no-reply@voyage.test", Message{
		To: "a@b.co", Subject: "Hi", Text: long, HTML: "<p>" + long + "</p>",
	}, time.Now()))

	assert.Equal(t, 2, strings.Count(body, "Content-Transfer-Encoding: quoted-printable\r\n"))
	for _, line := range strings.Split(body, "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}
