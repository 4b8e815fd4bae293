// vi: sw=4 ts=4:

/*

	Mnemonic:	transport/queue
	Abstract:	FIFO of *wire.AgentRequest shared between goroutines. Non-blocking
				Next() mirrors the source's mutex-guarded enqueue/dequeue/isEmpty
				(magiClib/AgentTransport.c); the channel-signalled NextBlocking is
				the spec §9 redesign replacing the 100ms sleep-poll with a wakeup.

	Date:		29 July 2026
*/

package transport

import (
	"sync"

	"github.com/deter-project/magi/wire"
)

// Queue is an unbounded FIFO guarded by a single mutex, with a buffered
// signal channel so blocking consumers don't need to poll.
type Queue struct {
	mu     sync.Mutex
	items  []*wire.AgentRequest
	signal chan struct{}
}

// NewQueue allocates an empty queue.
func NewQueue() *Queue {
	return &Queue{ signal: make( chan struct{}, 1 ) }
}

// Enqueue appends req at the rear and wakes one blocked NextBlocking caller.
func ( q *Queue ) Enqueue( req *wire.AgentRequest ) {
	q.mu.Lock()
	q.items = append( q.items, req )
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Next pops from the front, returning (nil, false) when the queue is empty --
// the non-blocking shape spec §4.3 calls for.
func ( q *Queue ) Next() ( *wire.AgentRequest, bool ) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len( q.items ) == 0 {
		return nil, false
	}
	req := q.items[0]
	q.items = q.items[1:]
	return req, true
}

// NextBlocking pops from the front, waiting on the signal channel when the
// queue is empty rather than sleep-polling (spec §9's redesign note). It
// returns (nil, false) if done is closed before an item arrives, so callers
// can honor cancellation without abandoning a blocking receive forever.
func ( q *Queue ) NextBlocking( done <-chan struct{} ) ( *wire.AgentRequest, bool ) {
	for {
		if req, ok := q.Next(); ok {
			return req, true
		}
		select {
		case <-q.signal:
		case <-done:
			return nil, false
		}
	}
}

// Empty reports whether the queue currently has no items.
func ( q *Queue ) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len( q.items ) == 0
}
