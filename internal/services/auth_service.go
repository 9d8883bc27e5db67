package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"userdesk/internal/authz"
	"userdesk/internal/models"
	"userdesk/internal/repositories"
)

// AuthService covers registration, sign-in and the OTP password reset.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	RequestOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type AuthOptions struct {
	// если true, RequestOTP для неизвестного email отвечает как для известного
	HideUnknownEmail bool
	WelcomeEmail     bool
}

type authService struct {
	users    repositories.UserRepository
	otp      OTPService
	hasher   PasswordHasher
	notifier Notifier
	opts     AuthOptions
}

func NewAuthService(users repositories.UserRepository, otp OTPService, hasher PasswordHasher, notifier Notifier, opts AuthOptions) AuthService {
	return &authService{
		users:    users,
		otp:      otp,
		hasher:   hasher,
		notifier: notifier,
		opts:     opts,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return nil
}

const (
	minPasswordLength = 6
	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len([]rune(password)) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         authz.RoleUser,
		Status:       authz.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[auth][register] ok: user_id=%d email=%q", user.ID, email)

	if s.opts.WelcomeEmail && s.notifier != nil {
		subject, body := welcomeEmail(user.Name)
		if err := s.notifier.Send(user.Email, subject, body); err != nil {
			// warn but do not fail registration
			log.Printf("[auth][register] warning: welcome email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("[auth][signin] unknown email=%q", email)
		}
		return nil, err
	}
	if !s.hasher.CheckPassword(user.PasswordHash, password) {
		log.Printf("[auth][signin] password mismatch for user_id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}
	if user.Status != authz.StatusActive {
		log.Printf("[auth][signin] inactive user_id=%d", user.ID)
		return nil, ErrAccountInactive
	}
	return &models.Identity{UserID: user.ID, Role: user.Role}, nil
}
