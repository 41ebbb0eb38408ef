package database

import (
	"errors"
	"testing"
	"time"

	"github.com/formforge/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testSupervisor(open func(dsn string) (*gorm.DB, error)) *Supervisor {
	s := NewSupervisor(Options{
		DSN:         "primary",
		FallbackDSN: "fallback",
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
	})
	s.open = open
	return s
}

func TestConnectFirstAttempt(t *testing.T) {
	handle := &gorm.DB{}
	s := testSupervisor(func(dsn string) (*gorm.DB, error) {
		assert.Equal(t, "primary", dsn)
		return handle, nil
	})

	require.NoError(t, s.Connect())
	assert.Equal(t, Connected, s.State())
	assert.True(t, s.Ready())

	db, err := s.DB()
	require.NoError(t, err)
	assert.Same(t, handle, db)
}

func TestConnectRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	s := testSupervisor(func(string) (*gorm.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return &gorm.DB{}, nil
	})

	require.NoError(t, s.Connect())
	assert.Equal(t, 3, attempts)
	assert.Equal(t, Connected, s.State())
}

func TestConnectFallsBackAfterMaxAttempts(t *testing.T) {
	var dsns []string
	s := testSupervisor(func(dsn string) (*gorm.DB, error) {
		dsns = append(dsns, dsn)
		if dsn == "fallback" {
			return &gorm.DB{}, nil
		}
		return nil, errors.New("no route to host")
	})

	require.NoError(t, s.Connect())
	assert.Equal(t, []string{"primary", "primary", "primary", "fallback"}, dsns)
	assert.Equal(t, Fallback, s.State())
	assert.True(t, s.Ready())
}

func TestConnectExhaustedLeavesDisconnected(t *testing.T) {
	s := testSupervisor(func(string) (*gorm.DB, error) {
		return nil, errors.New("no route to host")
	})

	err := s.Connect()
	require.Error(t, err)
	assert.Equal(t, Disconnected, s.State())
	assert.False(t, s.Ready())
}

func TestDBUnavailableBeforeConnect(t *testing.T) {
	s := testSupervisor(func(string) (*gorm.DB, error) {
		return &gorm.DB{}, nil
	})

	_, err := s.DB()
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "fallback", Fallback.String())
}
