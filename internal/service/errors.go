package service

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrGeneratorUnavailable = errors.New("question generator unavailable")
	ErrReviewLocked         = errors.New("answer today's question before completing the review")
	ErrQuestionInactive     = errors.New("question is inactive")
	ErrThemeNotFound        = errors.New("theme not found")
	ErrResetDisabled        = errors.New("password reset is disabled")
)
