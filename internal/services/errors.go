package services

import (
	"errors"

	"casino-minigames/internal/models"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownGame      = models.ErrUnknownGameType
	ErrRoundNotFound    = errors.New("round not found")
	ErrOutcomePending   = errors.New("outcome not computed yet")
	ErrOutcomeComputed  = errors.New("outcome already computed")
	ErrInvalidInput     = errors.New("invalid round input")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrUserNotFound     = errors.New("user not found")
)
