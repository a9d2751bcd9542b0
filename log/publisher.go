package log

import "sync"

const defaultBufferSize = 64

// Publisher is an [io.Writer] that fans out written bytes to subscribers.
//
// Each [Publisher.Write] copies the input once and delivers it to every
// active [Subscription] over a buffered channel. Delivery never blocks: when
// a subscriber's buffer is full the oldest entry is dropped to make room.
// Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subs    map[*Subscription]struct{}
	bufSize int
	mu      sync.Mutex
	closed  bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.bufSize = n
	}
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		subs:    make(map[*Subscription]struct{}),
		bufSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Write copies b and sends the copy to all active subscribers, dropping each
// subscriber's oldest entry when its buffer is full. Write always returns
// len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	entry := make([]byte, len(b))
	copy(entry, b)

	for sub := range p.subs {
		select {
		case sub.ch <- entry:
		default:
			// The subscriber may drain the buffer between the failed
			// send and the receive, so neither side may block.
			select {
			case <-sub.ch:
			default:
			}

			select {
			case sub.ch <- entry:
			default:
			}
		}
	}

	return len(b), nil
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		pub: p,
		ch:  make(chan []byte, p.bufSize),
	}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subs[sub] = struct{}{}

	return sub
}

// Close marks the Publisher as closed and closes all subscription channels.
// Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	for sub := range p.subs {
		close(sub.ch)
	}

	p.subs = nil

	return nil
}

// Subscription receives log entries from a [Publisher].
type Subscription struct {
	pub *Publisher
	ch  chan []byte
}

// C returns the read-only channel delivering log entries. The channel closes
// when either side closes.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close unregisters the subscription and closes its channel. Idempotent.
func (s *Subscription) Close() {
	s.pub.mu.Lock()
	defer s.pub.mu.Unlock()

	if s.pub.closed {
		return
	}

	if _, ok := s.pub.subs[s]; !ok {
		return
	}

	delete(s.pub.subs, s)
	close(s.ch)
}
