package chatbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saberchat/saber/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestBridge(t *testing.T) *bridge {
	t.Helper()

	b := newBridge(log.NewNop())
	t.Cleanup(func() { _ = b.Close() })

	return b
}

func TestBridge_RunsJob(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := newTestBridge(t)

	value, err := b.Do(context.Background(), func(context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	require.NoError(t, b.Close())
}

func TestBridge_ErrorPassesThrough(t *testing.T) {
	b := newTestBridge(t)

	boom := errors.New("boom")
	_, err := b.Do(context.Background(), func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestBridge_CallerCancellation(t *testing.T) {
	b := newTestBridge(t)

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	go func() {
		<-started
		cancel()
	}()

	_, err := b.Do(ctx, func(jobCtx context.Context) (any, error) {
		close(started)
		<-jobCtx.Done()
		return nil, jobCtx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBridge_CloseCancelsInFlight(t *testing.T) {
	b := newBridge(log.NewNop())

	started := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		_, err := b.Do(context.Background(), func(jobCtx context.Context) (any, error) {
			close(started)
			<-jobCtx.Done()
			return nil, jobCtx.Err()
		})
		result <- err
	}()

	<-started
	require.NoError(t, b.Close())

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after Close")
	}
}

func TestBridge_CloseIdempotent(t *testing.T) {
	b := newBridge(log.NewNop())

	// Close before first use is a no-op.
	require.NoError(t, b.Close())

	_, err := b.Do(context.Background(), func(context.Context) (any, error) { return nil, nil })
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}

func TestBridge_ReuseAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := newBridge(log.NewNop())

	_, err := b.Do(context.Background(), func(context.Context) (any, error) { return "first", nil })
	require.NoError(t, err)

	require.NoError(t, b.Close())

	value, err := b.Do(context.Background(), func(context.Context) (any, error) { return "second", nil })
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	require.NoError(t, b.Close())
}

func TestBridge_ReentrantCallRejected(t *testing.T) {
	b := newTestBridge(t)

	var inner error
	_, err := b.Do(context.Background(), func(jobCtx context.Context) (any, error) {
		_, inner = b.Do(jobCtx, func(context.Context) (any, error) { return nil, nil })
		return nil, nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, inner, ErrBridgeBusy)
}
