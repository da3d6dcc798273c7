package realtime

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// SubscriberID identifies a realtime connection
type SubscriberID string

// State is the lifecycle state of a subscriber connection
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Subscriber is a single realtime connection. Only OPEN subscribers receive
// broadcasts.
type Subscriber struct {
	id          SubscriberID
	transport   string
	send        chan []byte
	state       atomic.Int32
	connectedAt time.Time
}

// NewSubscriber creates a subscriber in the CONNECTING state
func NewSubscriber(transport string) *Subscriber {
	return &Subscriber{
		id:          SubscriberID(uuid.NewString()),
		transport:   transport,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

func (s *Subscriber) ID() SubscriberID {
	return s.id
}

func (s *Subscriber) State() State {
	return State(s.state.Load())
}

// Open marks the transport handshake as complete. A closed subscriber stays
// closed.
func (s *Subscriber) Open() bool {
	return s.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen))
}

// MarkClosed stops further deliveries to the subscriber
func (s *Subscriber) MarkClosed() {
	s.state.Store(int32(StateClosed))
}

// Messages returns the outbound queue. It is closed when the subscriber is
// removed from its hub.
func (s *Subscriber) Messages() <-chan []byte {
	return s.send
}
