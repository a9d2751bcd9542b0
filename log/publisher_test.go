package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargokit/cargokit/log"
)

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts    []log.PublisherOption
		wantCap int
	}{
		"default buffer size": {
			opts:    nil,
			wantCap: 64,
		},
		"custom buffer size": {
			opts:    []log.PublisherOption{log.WithBufferSize(8)},
			wantCap: 8,
		},
		"clamp zero to one": {
			opts:    []log.PublisherOption{log.WithBufferSize(0)},
			wantCap: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pub := log.NewPublisher(tc.opts...)

			sub := pub.Subscribe()
			defer sub.Close()

			assert.Equal(t, tc.wantCap, cap(sub.C()))
		})
	}
}

func TestPublisherWrite(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()

	subA := pub.Subscribe()
	subB := pub.Subscribe()

	n, err := pub.Write([]byte("entry"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, "entry", string(<-subA.C()))
	assert.Equal(t, "entry", string(<-subB.C()))
}

func TestPublisherDropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher(log.WithBufferSize(2))

	sub := pub.Subscribe()

	_, _ = pub.Write([]byte("one"))
	_, _ = pub.Write([]byte("two"))
	_, _ = pub.Write([]byte("three"))

	assert.Equal(t, "two", string(<-sub.C()))
	assert.Equal(t, "three", string(<-sub.C()))
}

func TestPublisherWriteConcurrentDrain(t *testing.T) {
	t.Parallel()

	// A subscriber draining its buffer between the publisher's failed
	// send and its drop-of-the-oldest must never stall the writer.
	pub := log.NewPublisher(log.WithBufferSize(1))

	sub := pub.Subscribe()
	drained := make(chan struct{})

	go func() {
		defer close(drained)

		for range sub.C() {
		}
	}()

	for range 1000 {
		_, err := pub.Write([]byte("entry"))
		require.NoError(t, err)
	}

	require.NoError(t, pub.Close())
	<-drained
}

func TestPublisherClose(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	sub := pub.Subscribe()

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close(), "close must be idempotent")

	_, open := <-sub.C()
	assert.False(t, open)

	// Writes after close are accepted and discarded.
	n, err := pub.Write([]byte("late"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Subscribing after close yields a closed channel.
	late := pub.Subscribe()
	_, open = <-late.C()
	assert.False(t, open)
}

func TestSubscriptionClose(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	sub := pub.Subscribe()

	sub.Close()
	sub.Close() // Idempotent.

	_, open := <-sub.C()
	assert.False(t, open)

	// Closed subscriptions no longer receive writes.
	_, err := pub.Write([]byte("after"))
	require.NoError(t, err)
}
