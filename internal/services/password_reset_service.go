package services

import (
	"context"
	"errors"
	"fmt"
	"log"
)

func (s *authService) RequestOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) && s.opts.HideUnknownEmail {
			// don't leak existence
			log.Printf("[password-reset] otp request for unknown email=%q", email)
			return nil
		}
		return err
	}

	code, err := s.otp.Issue(ctx, user.Email)
	if err != nil {
		return err
	}

	// the issued code stays valid even if delivery fails; the user may ask again
	subject, body := otpEmail(code, s.otp.TTL())
	if err := s.notifier.Send(user.Email, subject, body); err != nil {
		log.Printf("[password-reset] failed to send otp to %s: %v", user.Email, err)
		if !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return err
	}
	log.Printf("[password-reset] otp sent to user_id=%d", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = NormalizeEmail(email)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", ErrValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	// hash first: a failure here must not burn the code
	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.otp.Validate(ctx, email, code); err != nil {
		if errors.Is(err, ErrOTPInvalid) {
			log.Printf("[password-reset] rejected code for email=%q", email)
		}
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	log.Printf("[password-reset] password updated for user_id=%d", user.ID)
	return nil
}
