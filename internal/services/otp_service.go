package services

import (
	"context"
	"fmt"
	"time"

	"userdesk/internal/models"
	"userdesk/internal/repositories"
	"userdesk/internal/utils"
)

const (
	defaultOTPLength   = 6
	defaultOTPAlphabet = "0123456789"
	defaultOTPTTL      = 10 * time.Minute
	// guesses per issued code, then the code is dead
	defaultOTPMaxAttempts = 5
)

type OTPService interface {
	// Issue creates a fresh code for email, superseding any earlier one.
	Issue(ctx context.Context, email string) (string, error)
	// Validate consumes the code on success; any failure is ErrOTPInvalid.
	Validate(ctx context.Context, email, code string) error
	TTL() time.Duration
}

type OTPOptions struct {
	Length   int
	Alphabet string
	TTL      time.Duration
	// MaxAttempts caps Validate calls per issued code; 0 means 5.
	MaxAttempts int
	// Now для тестов; nil означает time.Now
	Now func() time.Time
}

type otpService struct {
	repo     repositories.OTPRepository
	length   int
	alphabet string
	ttl      time.Duration
	attempts int
	now      func() time.Time
}

func NewOTPService(repo repositories.OTPRepository, opts OTPOptions) OTPService {
	s := &otpService{
		repo:     repo,
		length:   opts.Length,
		alphabet: opts.Alphabet,
		ttl:      opts.TTL,
		attempts: opts.MaxAttempts,
		now:      opts.Now,
	}
	if s.length <= 0 {
		s.length = defaultOTPLength
	}
	if s.alphabet == "" {
		s.alphabet = defaultOTPAlphabet
	}
	if s.ttl <= 0 {
		s.ttl = defaultOTPTTL
	}
	if s.attempts <= 0 {
		s.attempts = defaultOTPMaxAttempts
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *otpService) TTL() time.Duration { return s.ttl }

func (s *otpService) Issue(ctx context.Context, email string) (string, error) {
	code, err := utils.NewCode(s.length, s.alphabet)
	if err != nil {
		return "", fmt.Errorf("otp generate: %w", err)
	}
	now := s.now()
	entry := &models.OTPEntry{
		Email:     email,
		CodeHash:  utils.HashCode(code),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Put(ctx, entry); err != nil {
		return "", err
	}
	return code, nil
}

func (s *otpService) Validate(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return ErrOTPInvalid
	}
	ok, err := s.repo.Consume(ctx, email, utils.HashCode(code), s.now(), s.attempts)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPInvalid
	}
	return nil
}
