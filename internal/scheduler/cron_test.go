package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) LoadGenres(ctx context.Context) error {
	l.calls.Add(1)
	return l.err
}

func TestStartRunsInitialLoad(t *testing.T) {
	loader := &countingLoader{}
	s := NewScheduler(loader, "@every 1h", utils.NewNopLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-s.InitialLoadDone():
	case <-time.After(5 * time.Second):
		t.Fatal("initial load did not run")
	}
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestFailedLoadDoesNotStopScheduler(t *testing.T) {
	loader := &countingLoader{err: errors.New("tmdb down")}
	s := NewScheduler(loader, "@every 1h", utils.NewNopLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	<-s.InitialLoadDone()
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&countingLoader{}, "not a schedule", utils.NewNopLogger())
	assert.Error(t, s.Start())
}
