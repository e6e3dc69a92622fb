package pipeline

import (
	"github.com/grailbio/base/syncqueue"
)

// OrderedSink delivers values to a single consumer in the order their
// sequence numbers were assigned at dispatch time, even though the
// producers that compute them may finish out of order. It is a thin layer
// over syncqueue.OrderedQueue.
type OrderedSink struct {
	queue *syncqueue.OrderedQueue
}

// NewOrderedSink creates a sink with room for backlog pending entries before
// Insert blocks.
func NewOrderedSink(backlog int) *OrderedSink {
	return &OrderedSink{queue: syncqueue.NewOrderedQueue(backlog)}
}

// Insert delivers value for sequence seq. Sequence numbers must be unique
// and delivery by Drain happens strictly in increasing seq order.
func (s *OrderedSink) Insert(seq int, value interface{}) error {
	return s.queue.Insert(seq, value)
}

// Close signals that no further sequence numbers will be inserted. err, if
// non-nil, is surfaced to a blocked Drain call. It returns the error the
// queue holds after closing: the first non-nil error it was closed with.
func (s *OrderedSink) Close(err error) error {
	return s.queue.Close(err)
}

// Drain calls consume once per value, in seq order, until the sink is
// closed or consume returns an error.
func (s *OrderedSink) Drain(consume func(value interface{}) error) error {
	for {
		value, ok, err := s.queue.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := consume(value); err != nil {
			s.queue.Close(err)
			return err
		}
	}
}
