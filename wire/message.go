// vi: sw=4 ts=4:

/*

	Mnemonic:	wire/message
	Abstract:	MAGIMessage inner message: encode/decode, header TLV list, and the
				derived src/src_dock/dst_nodes/dst_groups/dst_docks convenience
				fields populated on decode and by the messenger's constructor.
				Grounded on magiClib/MAGIMessage.c.

	Date:		29 July 2026
*/

package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// HeaderType identifies a MAGIMessage header.
type HeaderType uint8

const (
	HdrSequence   HeaderType = 1
	HdrTimestamp  HeaderType = 2
	HdrSequenceID HeaderType = 3
	HdrHostTime   HeaderType = 4
	HdrSrc        HeaderType = 20
	HdrSrcDock    HeaderType = 21
	HdrHMAC       HeaderType = 22
	HdrDstNodes   HeaderType = 50
	HdrDstGroups  HeaderType = 51
	HdrDstDocks   HeaderType = 52
)

// ContentType is the interpretation of a MAGIMessage's Data field. Only YAML
// is interpreted by the dispatch core; the rest round-trip verbatim.
type ContentType uint8

const (
	ContentNone     ContentType = 0
	ContentBlob     ContentType = 1
	ContentText     ContentType = 2
	ContentImage    ContentType = 3
	ContentProtobuf ContentType = 4
	ContentYAML     ContentType = 5
	ContentXML      ContentType = 6
	ContentPickle   ContentType = 7
)

// Flag bits carried in MAGIMessage.Flags.
const (
	FlagIsAck   uint8 = 1
	FlagNoAgg   uint8 = 2
	FlagWantAck uint8 = 4
)

// Header is one {type, value} pair of a MAGIMessage's header list. On the wire
// its length is a single byte, so a value longer than 255 bytes cannot be
// represented -- callers building oversized headers get ErrHeaderTooLong.
type Header struct {
	Type  HeaderType
	Value []byte
}

// MAGIMessage is the inner message carried inside a MESSAGE-kind AgentRequest
// (spec §3). Src/SrcDock/DstNodes/DstGroups/DstDocks are derived: populated
// from Headers on Decode and by the messenger's constructor, never encoded
// directly (they are a convenience projection of the header list).
type MAGIMessage struct {
	ID          uint32
	Flags       uint8
	ContentType ContentType
	Headers     []Header
	Data        []byte

	Src       string
	SrcDock   string
	DstNodes  []string
	DstGroups []string
	DstDocks  []string
}

var ErrHeaderTooLong = errors.New( "wire: header value exceeds 255 bytes" )

func headersWireLen( hdrs []Header ) int {
	n := 0
	for _, h := range hdrs {
		n += 2 + len( h.Value )
	}
	return n
}

// EncodeMAGIMessage serializes msg per spec §4.1:
//   total_len[4] header_len[2] id[4] flags[1] content_type[1] headers[] data[...]
// where header_len = 6 (id+flags+content_type) + sum(2+len(value)) over headers.
func EncodeMAGIMessage( msg *MAGIMessage ) ( []byte, error ) {
	for _, h := range msg.Headers {
		if len( h.Value ) > 255 {
			return nil, ErrHeaderTooLong
		}
	}

	hdrBytes := headersWireLen( msg.Headers )
	headerLen := 6 + hdrBytes
	totalLen := 2 + headerLen + len( msg.Data )

	buf := bytes.NewBuffer( make( []byte, 0, 4+totalLen ) )

	if err := binary.Write( buf, binary.BigEndian, uint32( totalLen ) ); err != nil {
		return nil, err
	}
	if err := binary.Write( buf, binary.BigEndian, uint16( headerLen ) ); err != nil {
		return nil, err
	}
	if err := binary.Write( buf, binary.BigEndian, msg.ID ); err != nil {
		return nil, err
	}
	buf.WriteByte( msg.Flags )
	buf.WriteByte( byte( msg.ContentType ) )

	for _, h := range msg.Headers {
		buf.WriteByte( byte( h.Type ) )
		buf.WriteByte( byte( len( h.Value ) ) )
		buf.Write( h.Value )
	}

	buf.Write( msg.Data )

	return buf.Bytes(), nil
}

// DecodeMAGIMessage parses buf (the MESSAGE-kind AgentRequest's payload) into
// a fresh MAGIMessage, populating the derived Src/SrcDock/DstNodes/DstGroups/
// DstDocks fields as it walks the header list. Returns ErrUnsupportedContentType
// when ContentType isn't YAML -- the caller is expected to log and drop such
// messages rather than try to interpret them (spec §4.1).
func DecodeMAGIMessage( buf []byte ) ( *MAGIMessage, error ) {
	if len( buf ) < 4+2+4+1+1 {
		return nil, ErrShortBuffer
	}

	totalLen := binary.BigEndian.Uint32( buf[0:4] )
	headerLen := binary.BigEndian.Uint16( buf[4:6] )

	msg := &MAGIMessage{
		ID:          binary.BigEndian.Uint32( buf[6:10] ),
		Flags:       buf[10],
		ContentType: ContentType( buf[11] ),
	}

	optLen := int( headerLen ) - 6
	cursor := 12
	for optLen > 0 {
		if cursor+2 > len( buf ) {
			return nil, ErrBadHeaderLength
		}
		htype := HeaderType( buf[cursor] )
		vlen := int( buf[cursor+1] )
		cursor += 2
		if cursor+vlen > len( buf ) {
			return nil, ErrBadHeaderLength
		}
		value := make( []byte, vlen )
		copy( value, buf[cursor:cursor+vlen] )
		cursor += vlen

		msg.Headers = append( msg.Headers, Header{ Type: htype, Value: value } )
		applyDerivedHeader( msg, htype, value )

		optLen -= 2 + vlen
	}

	dataLen := int( totalLen ) - int( headerLen ) - 2
	if dataLen < 0 || cursor+dataLen > len( buf ) {
		return nil, ErrBadHeaderLength
	}
	msg.Data = make( []byte, dataLen )
	copy( msg.Data, buf[cursor:cursor+dataLen] )

	if msg.ContentType != ContentYAML {
		return msg, ErrUnsupportedContentType
	}

	return msg, nil
}

func applyDerivedHeader( msg *MAGIMessage, htype HeaderType, value []byte ) {
	switch htype {
	case HdrSrc:
		msg.Src = string( value )
	case HdrSrcDock:
		msg.SrcDock = string( value )
	case HdrDstNodes:
		msg.DstNodes = append( msg.DstNodes, string( value ) )
	case HdrDstGroups:
		msg.DstGroups = append( msg.DstGroups, string( value ) )
	case HdrDstDocks:
		msg.DstDocks = append( msg.DstDocks, string( value ) )
	}
}
