// vi: sw=4 ts=4:

/*

	Mnemonic:	wire/request
	Abstract:	AgentRequest envelope: encode/decode to the on-wire TLV format the
				daemon speaks. Preamble check, explicit big-endian length fields,
				ordered option list. Grounded on the deter-project magi C library's
				AgentRequest.c (the newer generation: explicit length fields,
				options copied rather than aliased on decode).

	Date:		29 July 2026
*/

package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// RequestKind identifies what an AgentRequest carries.
type RequestKind uint8

const (
	JoinGroup   RequestKind = 1
	LeaveGroup  RequestKind = 2
	ListenDock  RequestKind = 3
	UnlistenDock RequestKind = 4
	Message     RequestKind = 5
)

// OptionCode identifies an AgentRequest option header.
type OptionCode uint8

const (
	Ack            OptionCode = 1
	SourceOrdering OptionCode = 2
	TimeStamp      OptionCode = 3
)

// Preamble is the fixed 8-byte marker that begins every AgentRequest on the wire.
var Preamble = []byte( "MAGI\x88MSG" )

var (
	ErrInvalidPreamble        = errors.New( "wire: invalid preamble" )
	ErrShortBuffer            = errors.New( "wire: buffer shorter than declared length" )
	ErrUnsupportedContentType = errors.New( "wire: unsupported content type" )
	ErrUnknownOption          = errors.New( "wire: unrecognized option name" )
	ErrBadHeaderLength        = errors.New( "wire: header length does not match buffer" )
)

// Option is one {code, value} pair of an AgentRequest's option list. Only
// TimeStamp carries a value (4 bytes); everything else is a bare flag.
type Option struct {
	Code  OptionCode
	Value []byte
}

// AgentRequest is the outer envelope exchanged with the daemon (spec §3/§4.1).
type AgentRequest struct {
	Kind    RequestKind
	Options []Option
	Payload []byte
}

// optionsWireLen is the byte length options[] contribute to header_len: 2
// bytes (code + length) per option, plus the option's value bytes.
func optionsWireLen( opts []Option ) int {
	n := 0
	for _, o := range opts {
		n += 2 + len( o.Value )
	}
	return n
}

// Encode serializes req per spec §4.1:
//   preamble[8] total_len[4] header_len[2] kind[1] options[] payload[...]
func Encode( req *AgentRequest ) ( []byte, error ) {
	optBytes := optionsWireLen( req.Options )
	headerLen := 1 + optBytes // kind byte + options
	totalLen := headerLen + 2 + len( req.Payload ) // + header_len field itself

	buf := bytes.NewBuffer( make( []byte, 0, 8+4+totalLen ) )
	buf.Write( Preamble )

	if err := binary.Write( buf, binary.BigEndian, uint32( totalLen ) ); err != nil {
		return nil, err
	}
	if err := binary.Write( buf, binary.BigEndian, uint16( headerLen ) ); err != nil {
		return nil, err
	}
	buf.WriteByte( byte( req.Kind ) )

	for _, o := range req.Options {
		buf.WriteByte( byte( o.Code ) )
		buf.WriteByte( byte( len( o.Value ) ) )
		if len( o.Value ) > 0 {
			buf.Write( o.Value )
		}
	}

	buf.Write( req.Payload )

	return buf.Bytes(), nil
}

// Decode parses buf into a fresh AgentRequest; options and payload are copied
// out of buf, never aliased. Returns ErrInvalidPreamble if the first 8 bytes
// don't match, without allocating an output record (spec §8 property 3).
func Decode( buf []byte ) ( *AgentRequest, error ) {
	if len( buf ) < 8+4+2+1 {
		return nil, ErrShortBuffer
	}
	if !bytes.Equal( buf[0:8], Preamble ) {
		return nil, ErrInvalidPreamble
	}

	totalLen := binary.BigEndian.Uint32( buf[8:12] )
	headerLen := binary.BigEndian.Uint16( buf[12:14] )

	if len( buf ) < 8+4+int( headerLen )+2 {
		return nil, ErrBadHeaderLength
	}

	kind := RequestKind( buf[14] )

	req := &AgentRequest{ Kind: kind }

	optBytes := int( headerLen ) - 1 // minus the kind byte
	cursor := 15
	for optBytes > 0 {
		if cursor+2 > len( buf ) {
			return nil, ErrBadHeaderLength
		}
		code := OptionCode( buf[cursor] )
		vlen := int( buf[cursor+1] )
		cursor += 2
		if cursor+vlen > len( buf ) {
			return nil, ErrBadHeaderLength
		}
		value := make( []byte, vlen )
		copy( value, buf[cursor:cursor+vlen] )
		cursor += vlen

		req.Options = append( req.Options, Option{ Code: code, Value: value } )
		optBytes -= 2 + vlen
	}

	payloadLen := int( totalLen ) - int( headerLen ) - 2
	if payloadLen < 0 || cursor+payloadLen > len( buf ) {
		return nil, ErrBadHeaderLength
	}
	req.Payload = make( []byte, payloadLen )
	copy( req.Payload, buf[cursor:cursor+payloadLen] )

	return req, nil
}

// AddOption validates key against the recognized option names and appends
// it to req.Options. Only TIME_STAMP stores a value; the value is truncated
// to 4 bytes if longer (spec §4.1). Returns ErrUnknownOption for an
// unrecognized key so callers can log+drop per the spec's "warning is logged"
// behavior without this package owning a logger.
func AddOption( req *AgentRequest, key string, value []byte ) ( truncated bool, err error ) {
	var code OptionCode
	switch key {
	case "ACK":
		code = Ack
	case "SOURCE_ORDERING":
		code = SourceOrdering
	case "TIME_STAMP":
		code = TimeStamp
	default:
		return false, ErrUnknownOption
	}

	if code != TimeStamp {
		req.Options = append( req.Options, Option{ Code: code } )
		return false, nil
	}

	v := value
	if len( v ) > 4 {
		v = v[0:4]
		truncated = true
	}
	req.Options = append( req.Options, Option{ Code: code, Value: v } )
	return truncated, nil
}
