package weldqueue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/weldlabs/weld"
	"github.com/weldlabs/weld/weldqueue"
)

type mailer struct {
	mu        sync.Mutex
	connected bool
	sent      []string
}

func (m *mailer) Connect(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

func (m *mailer) Disconnect(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *mailer) Send(user string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return false
	}
	m.sent = append(m.sent, user)
	return true
}

func (m *mailer) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

type signupDeps struct {
	Mailer *mailer
}

func TestWorkerProcessesMessages(t *testing.T) {
	t.Parallel()

	in := weld.New()
	worker, err := weldqueue.NewWorker(in)
	require.NoError(t, err)

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	processed := make(chan string, 1)
	weldqueue.AddHandler(
		worker, "send-welcome", "user.signup", pubsub,
		func(_ context.Context, deps signupDeps, msg *message.Message) error {
			require.True(t, deps.Mailer.Send(string(msg.Payload)),
				"mailer must be connected before the first delivery")
			processed <- string(msg.Payload)
			return nil
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	select {
	case <-worker.Router().Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	require.NoError(t, pubsub.Publish(
		"user.signup", message.NewMessage(watermill.NewUUID(), []byte("ada")),
	))

	select {
	case user := <-processed:
		require.Equal(t, "ada", user)
	case <-time.After(5 * time.Second):
		t.Fatal("message was not processed")
	}

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, worker.Close(context.Background()))

	m := weld.MustInject[*mailer](in)
	require.Equal(t, []string{"ada"}, m.Sent())
	require.False(t, m.Send("late"), "worker close must disconnect dependencies")
}

func TestWorkerCloseWithoutRun(t *testing.T) {
	t.Parallel()

	in := weld.New()
	worker, err := weldqueue.NewWorker(in)
	require.NoError(t, err)

	// Never connected: close must not attempt a disconnect.
	require.NoError(t, worker.Close(context.Background()))
}

func TestLoggerAdapter(t *testing.T) {
	t.Parallel()

	logger := weldqueue.NewLogger(zerolog.Nop())
	require.NotNil(t, logger)

	scoped := logger.With(watermill.LogFields{"handler": "send-welcome"})
	require.NotNil(t, scoped)

	// Must not panic on any level.
	scoped.Trace("trace", nil)
	scoped.Debug("debug", watermill.LogFields{"k": "v"})
	scoped.Info("info", nil)
	scoped.Error("error", context.Canceled, nil)
}
