package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsmartex/mlm/config"
)

func init() {
	config.NewLoggerService()
}

func TestLockerExcludesSameJob(t *testing.T) {
	l := NewLocker()

	release, ok, err := l.TryLock("rank_upgrade", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock("rank_upgrade", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	other, ok, err := l.TryLock("club_status", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	other()

	release()

	release, ok, err = l.TryLock("rank_upgrade", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}

func TestRunRejectsOverlap(t *testing.T) {
	var nested error

	err := Run("pending_bonus", func() (Fields, error) {
		nested = Run("pending_bonus", func() (Fields, error) {
			t.Fatal("overlapping run must not execute")
			return nil, nil
		})
		return Fields{"processed": 1}, nil
	})

	assert.NoError(t, err)
	assert.ErrorIs(t, nested, ErrAlreadyRunning)
}

func TestRunReturnsJobError(t *testing.T) {
	failure := errors.New("boom")

	err := Run("club_royalty", func() (Fields, error) {
		return nil, failure
	})
	assert.ErrorIs(t, err, failure)

	err = Run("club_royalty", func() (Fields, error) {
		return nil, nil
	})
	assert.NoError(t, err)
}
