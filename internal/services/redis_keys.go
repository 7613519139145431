package services

import "time"

const (
	KeyRateLimit  = "ratelimit:%s:%s"
	KeyRound      = "round:%s"
	KeyUserRounds = "user:%s:rounds"

	TTLRound      = 7 * 24 * time.Hour // 7 days
	TTLUserRounds = 30 * 24 * time.Hour

	MaxHistory = 100

	DefaultRateLimitRounds  = 30  // Max 30 rounds started per minute
	DefaultRateLimitReveals = 120 // compute/reveal/resolve calls per minute
)

// Rate limited actions of a session.
const (
	ActionRound   = "round"
	ActionCompute = "compute"
	ActionReveal  = "reveal"
	ActionResolve = "resolve"
)

var rateLimitActions = []string{ActionRound, ActionCompute, ActionReveal, ActionResolve}
