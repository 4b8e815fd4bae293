// vi: sw=4 ts=4:

/*

	Mnemonic:	transport
	Abstract:	Owns the single persistent TCP connection to the daemon, the rx
				and tx queues, and the listener/sender goroutines. Grounded on
				magiClib/AgentTransport.c's init_connection/start_connection/
				closeTransport, with the listener's framing upgraded from a
				scratch-buffer re-read to a rolling byte stream per spec §9's
				"Framing weakness" note, and sleep-polling replaced by channel
				signalling per spec §9's concurrency re-architecture note.

	Date:		29 July 2026
*/

package transport

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/att/gopkgs/bleater"

	"github.com/deter-project/magi/wire"
)

// scratchSize is the size of the listener's read buffer: the most one socket
// read can return before it is appended to the rolling buffer.
const scratchSize = 4096

// drainGrace bounds how long Close waits for the sender to empty Tx on its
// own before cancelling it; whatever is still queued then is written by the
// sender's final flush before the socket is closed.
const drainGrace = 50 * time.Millisecond

// Transport owns the socket and the two queues feeding/draining it.
type Transport struct {
	conn net.Conn
	sheep *bleater.Bleater

	Rx *Queue
	Tx *Queue

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Dial opens the TCP connection to the daemon at host:port. Connection
// failure here is the spec §7 "unreachable daemon" configuration error --
// fatal during initialization, so the caller is expected to exit on error
// (exit code 1 per spec §6).
func Dial( host string, port int, sheep *bleater.Bleater ) ( *Transport, error ) {
	conn, err := net.Dial( "tcp", net.JoinHostPort( host, strconv.Itoa( port ) ) )
	if err != nil {
		return nil, err
	}

	return &Transport{
		conn:  conn,
		sheep: sheep,
		Rx:    NewQueue(),
		Tx:    NewQueue(),
	}, nil
}

// Start launches the listener and sender goroutines. Callers send the
// initial LISTEN_DOCK (and, if applicable, JOIN_GROUP) requests through Tx
// themselves once Start returns -- this mirrors start_connection's ordering
// but keeps dock/group knowledge out of the transport layer (spec §4.3/§4.4
// draw that line at the messenger, not the transport).
func ( t *Transport ) Start() {
	ctx, cancel := context.WithCancel( context.Background() )
	t.cancel = cancel

	t.wg.Add( 2 )
	go t.listen( ctx )
	go t.send( ctx )
}

// listen reads off the socket into a rolling buffer, scans for the preamble,
// and enqueues one decoded AgentRequest per complete frame. Unlike the C
// source's listenThd (which assumes the first read begins on a frame
// boundary and discards leftovers on a bad preamble) this buffers across
// reads so a frame split across two reads, or two frames in one read, both
// decode correctly -- the spec §9 "acceptable, invisible upgrade".
func ( t *Transport ) listen( ctx context.Context ) {
	defer t.wg.Done()

	var roll bytes.Buffer
	scratch := make( []byte, scratchSize )

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := t.conn.Read( scratch )
		if n > 0 {
			roll.Write( scratch[0:n] )
		}
		if err != nil {
			if t.sheep != nil {
				t.sheep.Baa( 1, "listener: read error, closing: %s", err )
			}
			return
		}

		t.drainFrames( &roll )
	}
}

// drainFrames consumes as many complete frames as roll currently holds,
// resyncing to the next preamble occurrence when garbage precedes it.
func ( t *Transport ) drainFrames( roll *bytes.Buffer ) {
	for {
		buf := roll.Bytes()

		idx := bytes.Index( buf, wire.Preamble )
		if idx < 0 {
			if len( buf ) > len( wire.Preamble ) {
				roll.Next( len( buf ) - len( wire.Preamble ) + 1 )
			}
			return
		}
		if idx > 0 {
			roll.Next( idx )
			buf = roll.Bytes()
		}

		if len( buf ) < 8+4+2 {
			return
		}
		totalLen := be32( buf[8:12] )
		frameLen := int( totalLen ) + 12
		if len( buf ) < frameLen {
			return
		}

		req, err := wire.Decode( buf[0:frameLen] )
		roll.Next( frameLen )
		if err != nil {
			if t.sheep != nil {
				t.sheep.Baa( 0, "ERR: listener: decode failed: %s", err )
			}
			continue
		}
		t.Rx.Enqueue( req )
	}
}

func be32( b []byte ) uint32 {
	return uint32( b[0] )<<24 | uint32( b[1] )<<16 | uint32( b[2] )<<8 | uint32( b[3] )
}

// send dequeues AgentRequests off Tx, encodes, and writes them out. A write
// failure is logged and the message dropped -- the transport never retries
// or reconnects (spec §7).
func ( t *Transport ) send( ctx context.Context ) {
	defer t.wg.Done()

	for {
		req, ok := t.Tx.NextBlocking( ctx.Done() )
		if !ok {
			t.flush()
			return
		}

		buf, err := wire.Encode( req )
		if err != nil {
			if t.sheep != nil {
				t.sheep.Baa( 0, "ERR: sender: encode failed: %s", err )
			}
			continue
		}
		if _, err := t.conn.Write( buf ); err != nil {
			if t.sheep != nil {
				t.sheep.Baa( 0, "ERR: sender: write failed: %s", err )
			}
		}
	}
}

// flush writes out whatever is still queued at shutdown time.
func ( t *Transport ) flush() {
	for {
		req, ok := t.Tx.Next()
		if !ok {
			return
		}
		buf, err := wire.Encode( req )
		if err != nil {
			continue
		}
		t.conn.Write( buf )
	}
}

// SendOut enqueues req for transmission.
func ( t *Transport ) SendOut( req *wire.AgentRequest ) {
	t.Tx.Enqueue( req )
}

// Close stops the listener immediately (by expiring its pending read), lets
// the sender drain Tx (waiting up to drainGrace, then flushing the rest), and
// closes the socket once both goroutines have exited -- per spec §4.3/§5's
// cancellation ordering.
func ( t *Transport ) Close() {
	t.conn.SetReadDeadline( time.Now() )
	if !t.Tx.Empty() {
		deadline := time.Now().Add( drainGrace )
		for !t.Tx.Empty() && time.Now().Before( deadline ) {
			time.Sleep( time.Millisecond )
		}
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	t.conn.Close()
}
