package services

import (
	"sync"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/core/ports/driving"
)

// Ensure pageStream implements the interface.
var _ driving.PageStream = (*pageStream)(nil)

// pageStream is the channel-backed PageStream used by streaming mode.
// The producer goroutine selects on send-or-done, so a consumer that stops
// reading and calls Close never strands it.
type pageStream struct {
	ch        chan domain.PageResult
	done      chan struct{}
	closeOnce sync.Once
}

func newPageStream() *pageStream {
	return &pageStream{
		ch:   make(chan domain.PageResult),
		done: make(chan struct{}),
	}
}

// Next blocks for the next page result. ok is false once the stream is
// exhausted or closed.
func (s *pageStream) Next() (domain.PageResult, bool) {
	result, ok := <-s.ch
	return result, ok
}

// Close abandons the stream; the producer stops at the next page boundary.
func (s *pageStream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// send delivers one result to the consumer. Returns false when the stream
// was closed, telling the producer to stop.
func (s *pageStream) send(result domain.PageResult) bool {
	select {
	case s.ch <- result:
		return true
	case <-s.done:
		return false
	}
}

// finish signals exhaustion to the consumer.
func (s *pageStream) finish() {
	close(s.ch)
}
