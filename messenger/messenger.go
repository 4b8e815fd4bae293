// vi: sw=4 ts=4:

/*

	Mnemonic:	messenger
	Abstract:	Builds well-formed MAGIMessage values and hands them to the
				transport wrapped in a MESSAGE AgentRequest; the four control
				verbs (join/leave/listen/unlisten) build a control AgentRequest
				directly with no inner message. Grounded on
				magiClib/AgentMessenger.c's createAgentRequest/trigger/
				listenDock/joinGroup family.

	Date:		29 July 2026
*/

package messenger

import (
	"github.com/deter-project/magi/transport"
	"github.com/deter-project/magi/wire"
)

// Messenger is the thin layer between user/runtime code and the transport's
// tx queue.
type Messenger struct {
	xport *transport.Transport
}

// New wraps an already-dialed transport.
func New( xport *transport.Transport ) *Messenger {
	return &Messenger{ xport: xport }
}

// CreateMessage is the sole MAGIMessage constructor (spec §4.4): each
// non-empty argument contributes the corresponding header, data is required
// and copied.
func CreateMessage( srcDock, node, group, dstDock string, contentType wire.ContentType, data []byte ) *wire.MAGIMessage {
	msg := &wire.MAGIMessage{
		ContentType: contentType,
		Data:        append( []byte(nil), data... ),
	}

	if srcDock != "" {
		msg.SrcDock = srcDock
		msg.Headers = append( msg.Headers, wire.Header{ Type: wire.HdrSrcDock, Value: []byte( srcDock ) } )
	}
	if node != "" {
		msg.DstNodes = append( msg.DstNodes, node )
		msg.Headers = append( msg.Headers, wire.Header{ Type: wire.HdrDstNodes, Value: []byte( node ) } )
	}
	if group != "" {
		msg.DstGroups = append( msg.DstGroups, group )
		msg.Headers = append( msg.Headers, wire.Header{ Type: wire.HdrDstGroups, Value: []byte( group ) } )
	}
	if dstDock != "" {
		msg.DstDocks = append( msg.DstDocks, dstDock )
		msg.Headers = append( msg.Headers, wire.Header{ Type: wire.HdrDstDocks, Value: []byte( dstDock ) } )
	}

	return msg
}

// Send encodes msg, wraps it in a MESSAGE AgentRequest, attaches options, and
// enqueues it for transmission.
func ( m *Messenger ) Send( msg *wire.MAGIMessage, options map[string][]byte ) error {
	data, err := wire.EncodeMAGIMessage( msg )
	if err != nil {
		return err
	}

	req := &wire.AgentRequest{ Kind: wire.Message, Payload: data }
	for key, value := range options {
		wire.AddOption( req, key, value )
	}

	m.xport.SendOut( req )
	return nil
}

// Trigger builds a MAGIMessage addressed to group (typically "control") and
// sends it with no options (spec §4.4).
func ( m *Messenger ) Trigger( group string, contentType wire.ContentType, data []byte ) error {
	msg := CreateMessage( "", "", group, "", contentType, data )
	return m.Send( msg, nil )
}

func ( m *Messenger ) control( kind wire.RequestKind, name string ) {
	m.xport.SendOut( &wire.AgentRequest{ Kind: kind, Payload: []byte( name ) } )
}

// JoinGroup sends a JOIN_GROUP control request.
func ( m *Messenger ) JoinGroup( name string ) { m.control( wire.JoinGroup, name ) }

// LeaveGroup sends a LEAVE_GROUP control request.
func ( m *Messenger ) LeaveGroup( name string ) { m.control( wire.LeaveGroup, name ) }

// ListenDock sends a LISTEN_DOCK control request.
func ( m *Messenger ) ListenDock( name string ) { m.control( wire.ListenDock, name ) }

// UnlistenDock sends an UNLISTEN_DOCK control request.
func ( m *Messenger ) UnlistenDock( name string ) { m.control( wire.UnlistenDock, name ) }
