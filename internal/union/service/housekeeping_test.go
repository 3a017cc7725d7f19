package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type pruneStore struct {
	store.Store
	sessions *pruneSessions
}

func (p pruneStore) Sessions() store.Sessions { return p.sessions }

type pruneSessions struct {
	store.Sessions
	calls []time.Duration
	err   error
}

func (p *pruneSessions) DeleteSessionsOlderThan(_ context.Context, age time.Duration) (int64, error) {
	p.calls = append(p.calls, age)
	return 3, p.err
}

func TestHousekeepingSkipsWithoutMaxAge(t *testing.T) {
	sessions := &pruneSessions{}
	h := NewHousekeepingService(pruneStore{sessions: sessions}, slogx.Discard(), 0, 0)

	require.Equal(t, time.Hour, h.Interval)
	require.Zero(t, h.Cleanup(bg))
	require.Empty(t, sessions.calls)
}

func TestHousekeepingPrunesByMaxAge(t *testing.T) {
	sessions := &pruneSessions{}
	h := NewHousekeepingService(pruneStore{sessions: sessions}, slogx.Discard(), time.Minute, 2*time.Hour)

	require.EqualValues(t, 3, h.Cleanup(bg))
	require.Equal(t, []time.Duration{2 * time.Hour}, sessions.calls)

	sessions.err = errors.New("db gone")
	require.Zero(t, h.Cleanup(bg))
}

func TestHousekeepingStartStop(t *testing.T) {
	sessions := &pruneSessions{}
	h := NewHousekeepingService(pruneStore{sessions: sessions}, slogx.Discard(), time.Hour, time.Hour)

	h.Start()
	h.Stop()

	require.Len(t, sessions.calls, 1, "one pass runs immediately on start")
}

func TestHousekeepingStopWithoutStart(t *testing.T) {
	sessions := &pruneSessions{}
	h := NewHousekeepingService(pruneStore{sessions: sessions}, slogx.Discard(), time.Hour, time.Hour)

	done := make(chan struct{})
	go func() {
		h.Stop()
		h.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a service that was never started")
	}

	// Start after Stop must not launch a worker.
	h.Start()
	require.Empty(t, sessions.calls)
}

func TestHousekeepingStopIsIdempotent(t *testing.T) {
	h := NewHousekeepingService(pruneStore{sessions: &pruneSessions{}}, slogx.Discard(), time.Hour, time.Hour)

	h.Start()
	h.Start()
	h.Stop()
	h.Stop()
}
