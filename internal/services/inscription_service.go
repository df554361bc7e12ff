package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/monambengouta/we-settle/internal/auth"
	"github.com/monambengouta/we-settle/internal/models"
	apperrors "github.com/monambengouta/we-settle/pkg/errors"
	"github.com/monambengouta/we-settle/pkg/mail"
	"github.com/monambengouta/we-settle/pkg/metrics"
)

const (
	confirmationSubject = "Inscription Confirmation"
	tokenSubject        = "Inscription Token"
)

var (
	// ErrInscriptionNotFound indicates the requested inscription does not exist.
	ErrInscriptionNotFound = apperrors.New("INSCRIPTION_NOT_FOUND", "Inscription not found", http.StatusNotFound)
	// ErrInscriptionNotValidated rejects token requests for inscriptions that were never validated.
	ErrInscriptionNotValidated = apperrors.New("INSCRIPTION_NOT_VALIDATED", "Inscription must be validated first", http.StatusBadRequest)
)

// ValidationResult reports the outcome of a validation request.
type ValidationResult struct {
	Validated bool `json:"validated"`
}

// TokenResult reports the outcome of a token issuance request.
type TokenResult struct {
	Validated      bool `json:"validated"`
	TokenSent      bool `json:"tokenSent"`
	TokenRefreshed bool `json:"tokenRefreshed"`
}

// InscriptionOption customises the InscriptionService.
type InscriptionOption func(*InscriptionService)

// WithSender overrides the From address used for notification emails.
func WithSender(from string) InscriptionOption {
	return func(s *InscriptionService) {
		s.from = strings.TrimSpace(from)
	}
}

// WithClock injects a custom time source.
func WithClock(clock func() time.Time) InscriptionOption {
	return func(s *InscriptionService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// InscriptionService drives the inscription lifecycle: the one-way validated
// transition and the bearer-token issue/reuse/refresh policy. The store and
// mailer are collaborators; all decisions live here.
type InscriptionService struct {
	db     *gorm.DB
	tokens *auth.TokenService
	mailer mail.Mailer
	from   string
	now    func() time.Time
}

// NewInscriptionService constructs an InscriptionService with the provided dependencies.
func NewInscriptionService(db *gorm.DB, tokens *auth.TokenService, mailer mail.Mailer, opts ...InscriptionOption) (*InscriptionService, error) {
	if db == nil {
		return nil, errors.New("inscription service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("inscription service: token service is required")
	}

	service := &InscriptionService{
		db:     db,
		tokens: tokens,
		mailer: mailer,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Validate marks an inscription as validated. The transition is one-way and
// idempotent: an already-validated inscription is left untouched and no
// confirmation email is re-sent.
func (s *InscriptionService) Validate(ctx context.Context, id string) (*ValidationResult, error) {
	ctx = ensureContext(ctx)

	inscription, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if inscription.Validated {
		metrics.Validations.WithLabelValues("noop").Inc()
		return &ValidationResult{Validated: true}, nil
	}

	now := s.now()
	updates := map[string]any{
		"validated":       true,
		"validation_date": now,
	}
	if err := s.db.WithContext(ctx).Model(inscription).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("inscription service: mark validated: %w", err)
	}

	metrics.Validations.WithLabelValues("validated").Inc()

	// The validated state is durable at this point; a delivery failure
	// surfaces to the caller but must not undo it.
	confirmation := fmt.Sprintf("Your inscription with ID %s has been confirmed.\n", inscription.ID)
	if err := s.send(ctx, inscription.Email, confirmationSubject, confirmation); err != nil {
		return nil, apperrors.ErrDeliveryFailed.WithInternal(err)
	}

	return &ValidationResult{Validated: true}, nil
}

// IssueToken issues or refreshes the bearer token of a validated inscription
// and emails it to the inscription address. A stored token that has not yet
// expired is reused as-is; a missing or stale token is minted anew and
// persisted before any delivery is attempted.
func (s *InscriptionService) IssueToken(ctx context.Context, id string) (*TokenResult, error) {
	ctx = ensureContext(ctx)

	inscription, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inscription.Validated {
		return nil, ErrInscriptionNotValidated
	}

	var (
		tokenToSend    string
		tokenRefreshed bool
	)

	switch {
	case !inscription.HasToken():
		tokenToSend, err = s.mint(inscription)
		if err != nil {
			return nil, err
		}
		tokenRefreshed = true
		metrics.TokensIssued.WithLabelValues("initial").Inc()

	case s.tokens.IsExpired(*inscription.BearerToken):
		tokenToSend, err = s.mint(inscription)
		if err != nil {
			return nil, err
		}
		tokenRefreshed = true
		metrics.TokensIssued.WithLabelValues("refresh").Inc()

	default:
		tokenToSend = *inscription.BearerToken
	}

	if tokenRefreshed {
		updates := map[string]any{
			"bearer_token":    tokenToSend,
			"validation_date": s.now(),
		}
		if err := s.db.WithContext(ctx).Model(inscription).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("inscription service: store token: %w", err)
		}
	}

	// Token state is durable; the send happens strictly after.
	body := fmt.Sprintf("Your token is: %s\n", tokenToSend)
	if err := s.send(ctx, inscription.Email, tokenSubject, body); err != nil {
		return nil, apperrors.ErrDeliveryFailed.WithInternal(err)
	}

	return &TokenResult{
		Validated:      true,
		TokenSent:      true,
		TokenRefreshed: tokenRefreshed,
	}, nil
}

// GetByID loads a single inscription.
func (s *InscriptionService) GetByID(ctx context.Context, id string) (*models.Inscription, error) {
	return s.load(ensureContext(ctx), id)
}

// List returns all inscriptions ordered by creation time.
func (s *InscriptionService) List(ctx context.Context) ([]models.Inscription, error) {
	ctx = ensureContext(ctx)

	var inscriptions []models.Inscription
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&inscriptions).Error; err != nil {
		return nil, fmt.Errorf("inscription service: list: %w", err)
	}
	return inscriptions, nil
}

func (s *InscriptionService) load(ctx context.Context, id string) (*models.Inscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewBadRequest("inscription id is required")
	}

	var inscription models.Inscription
	err := s.db.WithContext(ctx).First(&inscription, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inscription service: load: %w", err)
	}
	return &inscription, nil
}

func (s *InscriptionService) mint(inscription *models.Inscription) (string, error) {
	token, err := s.tokens.Issue(auth.IssueTokenInput{
		UserID:        inscription.UserID,
		InscriptionID: inscription.ID,
	})
	if err != nil {
		return "", fmt.Errorf("inscription service: mint token: %w", err)
	}
	return token, nil
}

func (s *InscriptionService) send(ctx context.Context, to, subject, body string) error {
	if s.mailer == nil {
		return nil
	}

	err := s.mailer.Send(ctx, mail.Message{
		From:    s.from,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			return nil
		}
		metrics.EmailDeliveries.WithLabelValues("failure").Inc()
		return err
	}

	metrics.EmailDeliveries.WithLabelValues("success").Inc()
	return nil
}
