package authlockout

import (
	"context"
	"errors"
	"log/slog"
	"net/netip"
	"time"

	dErrors "droneregistry/pkg/domain-errors"
	"droneregistry/pkg/requestcontext"
)

const (
	defaultAttempts     = 5
	defaultWindow       = 15 * time.Minute
	defaultLockDuration = 15 * time.Minute
)

// Store persists lockout records. Get returns nil, nil for an unknown key.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	RecordFailure(ctx context.Context, key string, now time.Time, window time.Duration) (*Record, error)
	Lock(ctx context.Context, key string, until time.Time) error
	Clear(ctx context.Context, key string) error
}

type Service struct {
	store        Store
	logger       *slog.Logger
	metrics      *Metrics
	attempts     int
	window       time.Duration
	lockDuration time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLimits locks a key for lockDuration once attempts failures land inside
// window. Non-positive values keep the defaults.
func WithLimits(attempts int, window, lockDuration time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if window > 0 {
			s.window = window
		}
		if lockDuration > 0 {
			s.lockDuration = lockDuration
		}
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth lockout store is required")
	}
	s := &Service{
		store:        store,
		logger:       slog.Default(),
		attempts:     defaultAttempts,
		window:       defaultWindow,
		lockDuration: defaultLockDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check reports whether identifier may attempt a login from ip.
func (s *Service) Check(ctx context.Context, identifier, ip string) (*Result, error) {
	rec, err := s.store.Get(ctx, Key(identifier, ip))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get auth lockout record")
	}
	now := requestcontext.Now(ctx)
	if rec == nil || (rec.WindowExpired(now, s.window) && !rec.IsLockedAt(now)) {
		return &Result{Allowed: true, Limit: s.attempts, Remaining: s.attempts}, nil
	}
	if rec.IsLockedAt(now) {
		if s.metrics != nil {
			s.metrics.Rejected.Inc()
		}
		return &Result{
			Allowed:      false,
			Limit:        s.attempts,
			FailureCount: rec.FailureCount,
			RetryAfter:   rec.LockedUntil.Sub(now),
		}, nil
	}
	return &Result{
		Allowed:      true,
		Limit:        s.attempts,
		Remaining:    max(s.attempts-rec.FailureCount, 0),
		FailureCount: rec.FailureCount,
	}, nil
}

// RecordFailure counts a failed login and locks the key when the window's
// budget is spent.
func (s *Service) RecordFailure(ctx context.Context, identifier, ip string) (*Record, error) {
	key := Key(identifier, ip)
	now := requestcontext.Now(ctx)
	rec, err := s.store.RecordFailure(ctx, key, now, s.window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record auth failure")
	}
	if s.metrics != nil {
		s.metrics.FailuresRecorded.Inc()
	}
	if rec.FailureCount < s.attempts || rec.IsLockedAt(now) {
		return rec, nil
	}

	until := now.Add(s.lockDuration)
	if err := s.store.Lock(ctx, key, until); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock auth identifier")
	}
	rec.LockedUntil = &until
	if s.metrics != nil {
		s.metrics.Lockouts.Inc()
	}
	s.logger.WarnContext(ctx, "auth_lockout_triggered",
		"identifier", identifier,
		"ip", AnonymizeIP(ip),
		"locked_until", until,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	return rec, nil
}

// Clear forgets failures after a successful login.
func (s *Service) Clear(ctx context.Context, identifier, ip string) error {
	if err := s.store.Clear(ctx, Key(identifier, ip)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear auth failures")
	}
	return nil
}

// AnonymizeIP zeroes the host part: the last octet for IPv4, the last 80 bits
// for IPv6. Unparseable input is returned empty.
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}
	if addr.Is4() || addr.Is4In6() {
		b := addr.Unmap().As4()
		b[3] = 0
		return netip.AddrFrom4(b).String()
	}
	b := addr.As16()
	for i := 6; i < 16; i++ {
		b[i] = 0
	}
	return netip.AddrFrom16(b).String()
}
