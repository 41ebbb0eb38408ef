package database

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/formforge/backend/pkg/apperror"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// State describes where the supervisor is in its connection lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Fallback
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Options configures the connection supervisor.
type Options struct {
	DSN         string
	FallbackDSN string
	MaxAttempts int
	Backoff     time.Duration
}

// Supervisor owns the store connection for the process lifetime. Repositories
// obtain their handle through DB(), which fails with ErrStoreUnavailable until
// a connection has been established, so callers can always tell "empty result"
// apart from "could not query".
type Supervisor struct {
	mu    sync.RWMutex
	db    *gorm.DB
	state State
	opts  Options

	open func(dsn string) (*gorm.DB, error)
}

func NewSupervisor(opts Options) *Supervisor {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 5 * time.Second
	}

	return &Supervisor{
		state: Disconnected,
		opts:  opts,
		open: func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		},
	}
}

// Connect tries the primary DSN up to MaxAttempts times with a fixed backoff,
// then falls back to the local DSN once. It returns the last error when both
// fail; the supervisor is left Disconnected in that case.
func (s *Supervisor) Connect() error {
	s.setState(Connecting)

	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		db, err := s.open(s.opts.DSN)
		if err == nil {
			s.adopt(db, Connected)
			return nil
		}

		lastErr = err
		log.Printf("database connection attempt %d/%d failed: %v", attempt, s.opts.MaxAttempts, err)
		if attempt < s.opts.MaxAttempts {
			time.Sleep(s.opts.Backoff)
		}
	}

	if s.opts.FallbackDSN != "" && s.opts.FallbackDSN != s.opts.DSN {
		log.Printf("max connection attempts reached, trying fallback database")
		db, err := s.open(s.opts.FallbackDSN)
		if err == nil {
			s.adopt(db, Fallback)
			return nil
		}
		lastErr = err
	}

	s.setState(Disconnected)
	return fmt.Errorf("database unreachable: %w", lastErr)
}

// DB returns the live handle, or ErrStoreUnavailable when the supervisor is
// not in a ready state.
func (s *Supervisor) DB() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil || (s.state != Connected && s.state != Fallback) {
		return nil, apperror.ErrStoreUnavailable
	}
	return s.db, nil
}

func (s *Supervisor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Supervisor) Ready() bool {
	st := s.State()
	return st == Connected || st == Fallback
}

func (s *Supervisor) adopt(db *gorm.DB, state State) {
	s.mu.Lock()
	s.db = db
	s.state = state
	s.mu.Unlock()
	log.Printf("database connection established (%s)", state)
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
