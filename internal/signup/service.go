package signup

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/polytrigger/polytrigger/internal/metrics"
	"github.com/polytrigger/polytrigger/internal/ratelimit"
)

// ErrRateLimited is returned when a client IP exceeds its signup quota.
var ErrRateLimited = errors.New("signup rate limit exceeded")

// ErrInvalidEmail is returned for syntactically invalid addresses.
var ErrInvalidEmail = errors.New("invalid email address")

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result reports the outcome of a registration attempt.
type Result struct {
	AlreadyRegistered bool `json:"alreadyRegistered"`
}

// Service validates and stores early-access registrations.
type Service struct {
	store   Store
	limiter *ratelimit.Limiter
	metrics *metrics.Registry
}

// NewService wires the signup service. The limiter throttles per client
// IP; Metrics may be nil.
func NewService(store Store, limiter *ratelimit.Limiter, reg *metrics.Registry) *Service {
	return &Service{store: store, limiter: limiter, metrics: reg}
}

// Register stores an early-access signup. Duplicate emails are
// tolerated and surfaced via Result, not as errors.
func (s *Service) Register(ctx context.Context, email, source, ip string) (Result, error) {
	if s.limiter != nil && !s.limiter.Allow(ip) {
		s.count("rate_limited")
		return Result{}, ErrRateLimited
	}

	email = strings.TrimSpace(email)
	if !emailRe.MatchString(email) {
		s.count("invalid")
		return Result{}, ErrInvalidEmail
	}

	created, err := s.store.Save(ctx, Signup{Email: email, Source: source, IP: ip})
	if err != nil {
		return Result{}, err
	}
	if !created {
		s.count("duplicate")
		return Result{AlreadyRegistered: true}, nil
	}

	s.count("created")
	log.Info().Str("source", source).Msg("early-access signup recorded")
	return Result{}, nil
}

func (s *Service) count(result string) {
	if s.metrics != nil {
		s.metrics.Signups.WithLabelValues(result).Inc()
	}
}
