// vi: sw=4 ts=4:

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestRequestRoundTrip( t *testing.T ) {
	req := &AgentRequest{
		Kind: Message,
		Options: []Option{
			{ Code: Ack },
			{ Code: TimeStamp, Value: []byte{ 0, 0, 0, 7 } },
		},
		Payload: []byte( "hello world" ),
	}

	buf, err := Encode( req )
	if err != nil {
		t.Fatalf( "encode: %s", err )
	}

	got, err := Decode( buf )
	if err != nil {
		t.Fatalf( "decode: %s", err )
	}

	if got.Kind != req.Kind {
		t.Fatalf( "kind mismatch: got %v want %v", got.Kind, req.Kind )
	}
	if !bytes.Equal( got.Payload, req.Payload ) {
		t.Fatalf( "payload mismatch: got %q want %q", got.Payload, req.Payload )
	}
	if len( got.Options ) != len( req.Options ) {
		t.Fatalf( "option count mismatch: got %d want %d", len( got.Options ), len( req.Options ) )
	}
	for i := range req.Options {
		if got.Options[i].Code != req.Options[i].Code {
			t.Fatalf( "option %d code mismatch", i )
		}
		if !bytes.Equal( got.Options[i].Value, req.Options[i].Value ) {
			t.Fatalf( "option %d value mismatch", i )
		}
	}
}

func TestRequestNoOptions( t *testing.T ) {
	req := &AgentRequest{ Kind: ListenDock, Payload: []byte( "dock0" ) }

	buf, err := Encode( req )
	if err != nil {
		t.Fatalf( "encode: %s", err )
	}
	got, err := Decode( buf )
	if err != nil {
		t.Fatalf( "decode: %s", err )
	}
	if got.Kind != ListenDock || !bytes.Equal( got.Payload, req.Payload ) {
		t.Fatalf( "round trip mismatch: %+v", got )
	}
	if len( got.Options ) != 0 {
		t.Fatalf( "expected no options, got %d", len( got.Options ) )
	}
}

func TestDecodeBadPreamble( t *testing.T ) {
	buf := make( []byte, 64 )
	for i := range buf {
		buf[i] = byte( i )
	}

	got, err := Decode( buf )
	if !errors.Is( err, ErrInvalidPreamble ) {
		t.Fatalf( "expected ErrInvalidPreamble, got %v", err )
	}
	if got != nil {
		t.Fatalf( "expected no record allocated on bad preamble, got %+v", got )
	}
}

func TestDecodeShortBuffer( t *testing.T ) {
	_, err := Decode( []byte{ 1, 2, 3 } )
	if !errors.Is( err, ErrShortBuffer ) {
		t.Fatalf( "expected ErrShortBuffer, got %v", err )
	}
}

func TestAddOptionTruncatesTimestamp( t *testing.T ) {
	req := &AgentRequest{ Kind: Message }

	truncated, err := AddOption( req, "TIME_STAMP", []byte{ 1, 2, 3, 4, 5, 6 } )
	if err != nil {
		t.Fatalf( "AddOption: %s", err )
	}
	if !truncated {
		t.Fatalf( "expected truncation flag" )
	}
	if len( req.Options[0].Value ) != 4 {
		t.Fatalf( "expected value truncated to 4 bytes, got %d", len( req.Options[0].Value ) )
	}
}

func TestAddOptionUnknownKey( t *testing.T ) {
	req := &AgentRequest{ Kind: Message }
	_, err := AddOption( req, "BOGUS", nil )
	if !errors.Is( err, ErrUnknownOption ) {
		t.Fatalf( "expected ErrUnknownOption, got %v", err )
	}
}
