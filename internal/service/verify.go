package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"recovery-center/internal/domain"
	"recovery-center/internal/storage"
)

// VerificationStore keeps short-lived signup codes.
type VerificationStore interface {
	SaveCode(ctx context.Context, email, code string) error
	Confirm(ctx context.Context, email, code string) error
	IsVerified(ctx context.Context, email string) (bool, error)
}

// Mailer sends the verification mail. Outbound mail failures surface to
// the caller; a code nobody received is useless.
type Mailer interface {
	Send(to, subject, body string) error
}

type VerifyService struct {
	codes  VerificationStore
	mailer Mailer
}

func NewVerifyService(codes VerificationStore, mailer Mailer) *VerifyService {
	return &VerifyService{codes: codes, mailer: mailer}
}

// RequestCode issues a fresh 6-digit code and mails it. Re-requesting
// replaces the pending code and restarts its TTL.
func (s *VerifyService) RequestCode(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	code, err := sixDigitCode()
	if err != nil {
		return err
	}
	if err := s.codes.SaveCode(ctx, email, code); err != nil {
		return err
	}
	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", code)
	if err := s.mailer.Send(email, "Verify your email", body); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	log.Info().Str("module", "service.verify").Str("email", email).Msg("verification code sent")
	return nil
}

func (s *VerifyService) ConfirmCode(ctx context.Context, email, code string) error {
	err := s.codes.Confirm(ctx, email, code)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidCode
	}
	return err
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
