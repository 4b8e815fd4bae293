// vi: sw=4 ts=4:

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestMAGIMessageRoundTrip( t *testing.T ) {
	msg := &MAGIMessage{
		ID:          42,
		Flags:       FlagWantAck,
		ContentType: ContentYAML,
		Headers: []Header{
			{ Type: HdrSrcDock, Value: []byte( "dockA" ) },
			{ Type: HdrDstGroups, Value: []byte( "control" ) },
		},
		Data: []byte( "method: echo\nargs: {x: '1'}\n" ),
	}

	buf, err := EncodeMAGIMessage( msg )
	if err != nil {
		t.Fatalf( "encode: %s", err )
	}

	got, err := DecodeMAGIMessage( buf )
	if err != nil {
		t.Fatalf( "decode: %s", err )
	}

	if got.ID != msg.ID || got.Flags != msg.Flags || got.ContentType != msg.ContentType {
		t.Fatalf( "scalar field mismatch: %+v", got )
	}
	if !bytes.Equal( got.Data, msg.Data ) {
		t.Fatalf( "data mismatch: got %q want %q", got.Data, msg.Data )
	}
	if got.SrcDock != "dockA" {
		t.Fatalf( "expected derived SrcDock, got %q", got.SrcDock )
	}
	if len( got.DstGroups ) != 1 || got.DstGroups[0] != "control" {
		t.Fatalf( "expected derived DstGroups, got %v", got.DstGroups )
	}
}

func TestMAGIMessageUnsupportedContentType( t *testing.T ) {
	msg := &MAGIMessage{
		ContentType: ContentBlob,
		Data:        []byte{ 1, 2, 3 },
	}

	buf, err := EncodeMAGIMessage( msg )
	if err != nil {
		t.Fatalf( "encode: %s", err )
	}

	got, err := DecodeMAGIMessage( buf )
	if !errors.Is( err, ErrUnsupportedContentType ) {
		t.Fatalf( "expected ErrUnsupportedContentType, got %v", err )
	}
	if got == nil || !bytes.Equal( got.Data, msg.Data ) {
		t.Fatalf( "expected data to still round-trip verbatim: %+v", got )
	}
}

func TestMAGIMessageMultipleDstNodes( t *testing.T ) {
	msg := &MAGIMessage{
		ContentType: ContentYAML,
		Headers: []Header{
			{ Type: HdrDstNodes, Value: []byte( "h1" ) },
			{ Type: HdrDstNodes, Value: []byte( "h2" ) },
		},
		Data: []byte( "trigger: done\n" ),
	}

	buf, err := EncodeMAGIMessage( msg )
	if err != nil {
		t.Fatalf( "encode: %s", err )
	}
	got, err := DecodeMAGIMessage( buf )
	if err != nil {
		t.Fatalf( "decode: %s", err )
	}
	if len( got.DstNodes ) != 2 || got.DstNodes[0] != "h1" || got.DstNodes[1] != "h2" {
		t.Fatalf( "expected both dst nodes preserved in order, got %v", got.DstNodes )
	}
}
