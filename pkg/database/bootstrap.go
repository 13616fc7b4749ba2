package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/products/config"
	"github.com/shashiranjanraj/products/pkg/logger"
	"github.com/shashiranjanraj/products/pkg/metrics"
	"github.com/shashiranjanraj/products/pkg/retry"
)

var (
	ErrNotInitialized     = errors.New("database: not initialized")
	ErrRetriesExhausted   = errors.New("database: failed to establish connection after maximum retries")
	ErrAlreadyInitialized = errors.New("database: bootstrap already ran")
)

// State is a step of the one-shot bootstrap lifecycle.
type State int

const (
	Uninitialized State = iota
	Connecting
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Opener makes one connection attempt.
type Opener func(ctx context.Context) (*gorm.DB, error)

// Bootstrap owns the process's single database handle. It moves from
// Uninitialized through Connecting to Connected or Failed exactly once.
type Bootstrap struct {
	open   Opener
	policy retry.Policy

	mu    sync.RWMutex
	state State
	conn  *gorm.DB
}

// NewBootstrap pairs an opener with the retry policy used by Initialize.
func NewBootstrap(open Opener, policy retry.Policy) *Bootstrap {
	return &Bootstrap{open: open, policy: policy}
}

// DefaultPolicy is DB_CONNECT_ATTEMPTS attempts DB_CONNECT_DELAY_MS apart
// (5 and 5000 ms unless configured).
func DefaultPolicy() retry.Policy {
	return retry.Fixed(config.ConnectAttempts(), config.ConnectDelay())
}

// Initialize connects, retrying per the policy. It returns an error matching
// ErrRetriesExhausted when every attempt failed, and ErrAlreadyInitialized
// on any call after the first.
func (b *Bootstrap) Initialize(ctx context.Context) error {
	b.mu.Lock()
	if b.state != Uninitialized {
		b.mu.Unlock()
		return ErrAlreadyInitialized
	}
	b.state = Connecting
	b.mu.Unlock()

	max := b.policy.Attempts()
	var (
		conn *gorm.DB
		used int
	)

	err := b.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		used = attempt
		logger.Info("database: connecting", "attempt", attempt, "max", max)

		db, err := b.open(ctx)
		metrics.RecordConnectAttempt(err)
		if err != nil {
			logger.Error("database: connection failed", "attempt", attempt, "max", max, "error", err)
			return err
		}

		conn = db
		return nil
	})

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.state = Failed
		if errors.Is(err, retry.ErrExhausted) {
			return fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
		}
		return fmt.Errorf("database: bootstrap aborted: %w", err)
	}

	b.conn = conn
	b.state = Connected
	logger.Info("database: connected", "attempt", used, "max", max)
	return nil
}

// Conn returns the live handle, or ErrNotInitialized before a successful Initialize.
func (b *Bootstrap) Conn() (*gorm.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state != Connected || b.conn == nil {
		return nil, ErrNotInitialized
	}
	return b.conn, nil
}

// MustConn is Conn for wiring code that runs strictly after Initialize.
func (b *Bootstrap) MustConn() *gorm.DB {
	conn, err := b.Conn()
	if err != nil {
		panic(err)
	}
	return conn
}

func (b *Bootstrap) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Close releases the handle. The state stays terminal.
func (b *Bootstrap) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	sqlDB, err := b.conn.DB()
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}
	b.conn = nil
	return sqlDB.Close()
}
