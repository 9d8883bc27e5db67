package services

import (
	"errors"

	"userdesk/internal/repositories"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = repositories.ErrDuplicateEmail
	ErrNotFound           = repositories.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrOTPInvalid         = errors.New("invalid or expired code")
	ErrTransport          = errors.New("email delivery failed")
)
