package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgermint/ledgermint/libs/log"
)

type testService struct {
	stopped bool
	Service
}

func (t *testService) OnStop() { t.stopped = true }

func (t *testService) OnStart(context.Context) error { return nil }

func TestBaseServiceWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts := &testService{}
	ts.Service = NewBaseService(log.NewTestingLogger(t), "TestService", ts)
	require.NoError(t, ts.Start(ctx))

	waitFinished := make(chan struct{})
	go func() {
		ts.Wait()
		close(waitFinished)
	}()

	go cancel()

	select {
	case <-waitFinished:
		require.True(t, ts.stopped)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected Wait() to finish within 100 ms")
	}
}

func TestBaseServiceStartTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts := &testService{}
	ts.Service = NewBaseService(log.NewTestingLogger(t), "TestService", ts)
	require.NoError(t, ts.Start(ctx))
	require.ErrorIs(t, ts.Start(ctx), ErrAlreadyStarted)
}

func TestBaseServiceStopWithoutStart(t *testing.T) {
	ts := &testService{}
	ts.Service = NewBaseService(log.NewTestingLogger(t), "TestService", ts)
	bs := ts.Service.(*BaseService)
	require.ErrorIs(t, bs.Stop(), ErrNotStarted)
}