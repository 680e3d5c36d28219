package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sullendaAPI/internal/notification"
)

type recordingProvider struct {
	mu    sync.Mutex
	sent  []string
	err   error
	calls chan struct{}
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{calls: make(chan struct{}, 16)}
}

func (p *recordingProvider) SendPush(_ context.Context, tokens []notification.DeviceToken, title, _ string, _ map[string]any) error {
	p.mu.Lock()
	for _, t := range tokens {
		p.sent = append(p.sent, title+"->"+t.Token)
	}
	p.mu.Unlock()
	p.calls <- struct{}{}
	return p.err
}

func (p *recordingProvider) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for push %d of %d", i+1, n)
		}
	}
}

func job(owner, title string, tokens ...string) *PushJob {
	j := &PushJob{Push: notification.Push{OwnerID: owner, Kind: notification.KindTest, Title: title}}
	for _, tok := range tokens {
		j.Tokens = append(j.Tokens, notification.DeviceToken{OwnerID: owner, Token: tok, Platform: "ios"})
	}
	return j
}

func TestPushDispatcher_DeliversJobs(t *testing.T) {
	d := NewPushDispatcher(zap.NewNop(), 2, 10)
	defer d.Stop()

	provider := newRecordingProvider()
	d.SetPushProvider(provider)

	require.NoError(t, d.Dispatch(context.Background(), job("user_1", "hello", "tok-a", "tok-b")))
	require.NoError(t, d.Dispatch(context.Background(), job("user_2", "hi", "tok-c")))
	provider.wait(t, 2)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.ElementsMatch(t, []string{"hello->tok-a", "hello->tok-b", "hi->tok-c"}, provider.sent)
}

func TestPushDispatcher_ProviderErrorDoesNotStopWorkers(t *testing.T) {
	d := NewPushDispatcher(zap.NewNop(), 1, 10)
	defer d.Stop()

	provider := newRecordingProvider()
	provider.err = errors.New("fcm unavailable")
	d.SetPushProvider(provider)

	require.NoError(t, d.Dispatch(context.Background(), job("user_1", "one", "tok-a")))
	require.NoError(t, d.Dispatch(context.Background(), job("user_1", "two", "tok-a")))
	provider.wait(t, 2)
}

func TestPushDispatcher_NoProviderSkips(t *testing.T) {
	d := NewPushDispatcher(zap.NewNop(), 1, 10)
	assert.NoError(t, d.Dispatch(context.Background(), job("user_1", "dropped", "tok-a")))
	d.Stop()
}

func TestPushDispatcher_DispatchAfterStop(t *testing.T) {
	d := NewPushDispatcher(zap.NewNop(), 1, 0)
	d.Stop()
	d.Stop()

	assert.ErrorIs(t, d.Dispatch(context.Background(), job("user_1", "late", "tok-a")), ErrPushDropped)
}

func TestPushDispatcher_DispatchHonoursContext(t *testing.T) {
	// No buffer and a worker busy on a blocked provider, so the send can only
	// complete if the context is ignored.
	d := NewPushDispatcher(zap.NewNop(), 1, 0)
	release := make(chan struct{})
	d.SetPushProvider(blockingProvider{release: release})
	defer func() {
		close(release)
		d.Stop()
	}()

	require.NoError(t, d.Dispatch(context.Background(), job("user_1", "first", "tok-a")))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := d.Dispatch(ctx, job("user_1", "second", "tok-a"))
	assert.ErrorIs(t, err, ErrPushDropped)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type blockingProvider struct {
	release chan struct{}
}

func (p blockingProvider) SendPush(ctx context.Context, _ []notification.DeviceToken, _, _ string, _ map[string]any) error {
	select {
	case <-p.release:
	case <-ctx.Done():
	}
	return nil
}
