// README: Email export of the current itinerary to the logged-in session identity.
package export

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"voyage/internal/modules/itinerary"
)

var (
	ErrNoItinerary = errors.New("no itinerary to export")
	ErrNotLoggedIn = errors.New("not logged in")
	ErrDelivery    = errors.New("email delivery failed")
)

const subject = "Your Voyage itinerary"

// Session is the part of a session scope the exporter reads.
type Session interface {
	Current(ctx context.Context) (itinerary.Itinerary, bool, error)
	Identity(ctx context.Context) (string, bool, error)
}

type Service struct {
	mailer Mailer
	log    *zap.Logger
}

func NewService(mailer Mailer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{mailer: mailer, log: log}
}

// Email sends the current itinerary to the session identity. The itinerary
// is checked first: ErrNoItinerary wins over ErrNotLoggedIn.
func (s *Service) Email(ctx context.Context, sess Session) error {
	it, ok, err := sess.Current(ctx)
	if err != nil {
		return err
	}
	if !ok || it.Empty() {
		return ErrNoItinerary
	}

	to, ok, err := sess.Identity(ctx)
	if err != nil {
		return err
	}
	if !ok || to == "" {
		return ErrNotLoggedIn
	}

	msg, err := Compose(to, it)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warn("itinerary email failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	s.log.Info("itinerary emailed", zap.String("to", to), zap.String("shape", string(it.Shape())))
	return nil
}

// Compose serializes an itinerary into a text and HTML message.
func Compose(to string, it itinerary.Itinerary) (Message, error) {
	html, err := renderHTML(subject, it)
	if err != nil {
		return Message{}, fmt.Errorf("render itinerary email: %w", err)
	}
	return Message{
		To:      to,
		Subject: subject,
		Text:    itinerary.PlainText(subject, it),
		HTML:    html,
	}, nil
}
