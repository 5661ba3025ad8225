package service

import (
	"bitwise74/newsletter-api/internal/domain"
	"bitwise74/newsletter-api/internal/mail"
	"bitwise74/newsletter-api/internal/metrics"
	"bitwise74/newsletter-api/internal/model"
	"bitwise74/newsletter-api/pkg/security"
	"bitwise74/newsletter-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrUnknownToken means no subscriber was ever issued the token
	ErrUnknownToken = errors.New("no subscriber is associated with the provided token")
	// ErrDelivery wraps failures of the confirmation email after the
	// subscriber has been committed
	ErrDelivery = errors.New("failed to send confirmation email")
)

type Option func(*Subscriptions)

// WithClock injects the time source used for subscribed_at
func WithClock(now func() time.Time) Option {
	return func(s *Subscriptions) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenGenerator replaces the confirmation token source
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(s *Subscriptions) {
		if gen != nil {
			s.newToken = gen
		}
	}
}

// Subscriptions runs the signup and confirmation workflows
type Subscriptions struct {
	db       *gorm.DB
	mailer   mail.Sender
	baseURL  string
	log      *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	newToken func() (string, error)
}

func NewSubscriptions(db *gorm.DB, mailer mail.Sender, baseURL string, log *zap.Logger, m *metrics.Metrics, opts ...Option) (*Subscriptions, error) {
	if db == nil {
		return nil, errors.New("subscriptions: db is required")
	}

	if mailer == nil {
		return nil, errors.New("subscriptions: mailer is required")
	}

	if baseURL == "" {
		return nil, errors.New("subscriptions: base url is required")
	}

	if log == nil {
		log = zap.NewNop()
	}

	if m == nil {
		m = metrics.New()
	}

	s := &Subscriptions{
		db:       db,
		mailer:   mailer,
		baseURL:  baseURL,
		log:      log,
		metrics:  m,
		now:      time.Now,
		newToken: security.MakeSubscriptionToken,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Subscribe validates the form, stores a pending subscriber together with
// its confirmation token in one transaction and then emails the
// confirmation link. A failed email does not undo the committed rows.
//
// Validation failures are returned as *validators.ValidationError,
// delivery failures wrap ErrDelivery, anything else is a storage error.
func (s *Subscriptions) Subscribe(ctx context.Context, form domain.SubscribeForm) error {
	ns, err := domain.ParseNewSubscriber(form)
	if err != nil {
		s.metrics.Subscriptions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return err
	}

	log := s.log.With(
		zap.String("subscriber_email", ns.Email.String()),
		zap.String("subscriber_name", ns.Name.String()),
	)

	var token string

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := insertSubscriber(tx, ns, s.now())
		if err != nil {
			return fmt.Errorf("failed to insert new subscriber in the database, %w", err)
		}

		token, err = s.newToken()
		if err != nil {
			return fmt.Errorf("failed to generate subscription token, %w", err)
		}

		if err := storeToken(tx, id, token); err != nil {
			return fmt.Errorf("failed to store the confirmation token for a new subscriber, %w", err)
		}

		log.Debug("Stored pending subscriber", zap.String("subscriber_id", id))
		return nil
	})
	if err != nil {
		s.metrics.Subscriptions.WithLabelValues(metrics.OutcomeStorageError).Inc()
		return err
	}

	if err := s.sendConfirmationEmail(ctx, ns, token); err != nil {
		s.metrics.Subscriptions.WithLabelValues(metrics.OutcomeDeliveryFailure).Inc()
		s.metrics.EmailsSent.WithLabelValues(metrics.OutcomeDeliveryFailure).Inc()
		return fmt.Errorf("%w, %w", ErrDelivery, err)
	}

	s.metrics.Subscriptions.WithLabelValues(metrics.OutcomeOK).Inc()
	s.metrics.EmailsSent.WithLabelValues(metrics.OutcomeOK).Inc()

	return nil
}

// Confirm marks the subscriber that owns token as confirmed and returns
// its ID. Confirming twice is a no-op that succeeds.
func (s *Subscriptions) Confirm(ctx context.Context, token string) (string, error) {
	// Anything MakeSubscriptionToken couldn't have produced can't be in
	// the table either
	if !security.IsWellFormedToken(token) {
		s.metrics.Confirmations.WithLabelValues(metrics.OutcomeUnknownToken).Inc()
		return "", ErrUnknownToken
	}

	db := s.db.WithContext(ctx)

	var t model.SubscriptionToken
	err := db.
		Select("subscriber_id").
		Where("subscription_token = ?", token).
		Take(&t).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Confirmations.WithLabelValues(metrics.OutcomeUnknownToken).Inc()
			return "", ErrUnknownToken
		}

		s.metrics.Confirmations.WithLabelValues(metrics.OutcomeStorageError).Inc()
		return "", fmt.Errorf("failed to look up subscription token, %w", err)
	}

	err = db.
		Model(&model.Subscription{}).
		Where("id = ?", t.SubscriberID).
		Update("status", model.StatusConfirmed).
		Error
	if err != nil {
		s.metrics.Confirmations.WithLabelValues(metrics.OutcomeStorageError).Inc()
		return "", fmt.Errorf("failed to update confirmation status in the database, %w", err)
	}

	s.metrics.Confirmations.WithLabelValues(metrics.OutcomeOK).Inc()
	return t.SubscriberID, nil
}

func insertSubscriber(tx *gorm.DB, ns domain.NewSubscriber, now time.Time) (string, error) {
	sub := model.Subscription{
		ID:           uuid.NewString(),
		Email:        ns.Email.String(),
		Name:         ns.Name.String(),
		SubscribedAt: now.UTC(),
		Status:       model.StatusPendingConfirmation,
	}

	if err := tx.Create(&sub).Error; err != nil {
		return "", err
	}

	return sub.ID, nil
}

func storeToken(tx *gorm.DB, subscriberID, token string) error {
	return tx.Omit("Subscriber").Create(&model.SubscriptionToken{
		SubscriptionToken: token,
		SubscriberID:      subscriberID,
	}).Error
}

func (s *Subscriptions) sendConfirmationEmail(ctx context.Context, ns domain.NewSubscriber, token string) error {
	link := mail.ConfirmationLink(s.baseURL, token)

	email, err := mail.ConfirmationEmail(ns.Name.String(), link)
	if err != nil {
		return err
	}

	return s.mailer.SendEmail(ctx, ns.Email.String(), email.Subject, email.HtmlBody, email.TextBody)
}

// IsValidationError reports whether err was caused by rejected user input
func IsValidationError(err error) bool {
	var vErr *validators.ValidationError
	return errors.As(err, &vErr)
}
