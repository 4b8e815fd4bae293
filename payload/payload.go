// vi: sw=4 ts=4:

/*

	Mnemonic:	payload
	Abstract:	The small line-structured grammar carried inside a YAML-content
				MAGIMessage: method/args/trigger in, and the flat dictionary
				rendering used to build trigger and reply payloads back out.
				Not a general YAML parser -- grounded on magiClib/MAGIMessage.c's
				decodeYAML, which is exactly this lenient and exactly this terse.

	Date:		29 July 2026
*/

package payload

import (
	"fmt"
	"strings"
)

// Payload is the parsed form of an inbound YAML-content message body.
type Payload struct {
	Method  string
	Args    []string
	Trigger string
}

// MaxArity is the hard cap on args enforced by the registry (spec §4.5); the
// parser itself does not reject an overlong args list, it just hands it on.
const MaxArity = 10

// Parse walks buf line by line looking for method:, args: {...} and trigger:
// keys, in any order. Unrecognized lines are skipped. A malformed or missing
// args object yields Args == nil rather than an error -- the caller still
// dispatches, and the registry's arity check is what actually rejects it
// (spec §4.2: "the function is still dispatched").
func Parse( buf []byte ) ( Payload, error ) {
	var p Payload

	text := strings.ReplaceAll( string( buf ), "\"", " " )
	text = strings.ReplaceAll( text, "'", " " )

	for _, line := range strings.Split( text, "\n" ) {
		switch {
		case strings.Contains( line, "method" ):
			if name, ok := afterColon( line ); ok {
				p.Method = strings.TrimSpace( name )
			}

		case strings.Contains( line, "args" ):
			p.Args = parseArgs( line )

		case strings.Contains( line, "trigger" ):
			if name, ok := afterColon( line ); ok {
				p.Trigger = strings.TrimSpace( name )
			}
		}
	}

	return p, nil
}

// afterColon splits "key: rest" into rest, trimmed. Used for method/trigger
// lines which carry a single scalar value.
func afterColon( line string ) ( string, bool ) {
	idx := strings.Index( line, ":" )
	if idx < 0 {
		return "", false
	}
	return line[idx+1:], true
}

// parseArgs extracts the values out of an "args: { k1: v1, k2: v2 }" line.
// Keys are discarded; values are returned in left-to-right order. An empty
// "{}" or a line with no braces at all yields a nil slice.
func parseArgs( line string ) []string {
	open := strings.Index( line, "{" )
	close_ := strings.LastIndex( line, "}" )
	if open < 0 || close_ < 0 || close_ <= open {
		return nil
	}

	inner := strings.TrimSpace( line[open+1 : close_] )
	if inner == "" {
		return nil
	}

	var args []string
	for _, pair := range strings.Split( inner, "," ) {
		kv := strings.SplitN( pair, ":", 2 )
		if len( kv ) != 2 {
			continue
		}
		args = append( args, strings.TrimSpace( kv[1] ) )
	}
	return args
}

// RenderDict flattens key-value pairs into the "k1: v1, k2: v2" fragment
// used inside a larger {event: E, <fragment>, nodes: H} trigger object
// (spec §4.2).
func RenderDict( kv [][2]string ) string {
	parts := make( []string, 0, len( kv ) )
	for _, p := range kv {
		parts = append( parts, fmt.Sprintf( "%s: %s", p[0], p[1] ) )
	}
	return strings.Join( parts, ", " )
}

// FormatDictTrigger builds the full {event: E, <fragment>, nodes: H} body for
// a DICTIONARY-return trigger.
func FormatDictTrigger( event string, kv [][2]string, host string ) string {
	frag := RenderDict( kv )
	if frag == "" {
		return fmt.Sprintf( "{event: %s, nodes: %s}", event, host )
	}
	return fmt.Sprintf( "{event: %s, %s, nodes: %s}", event, frag, host )
}

// FormatValueTrigger builds the {event: E, retVal: V, nodes: H} body used for
// every non-DICTIONARY return kind.
func FormatValueTrigger( event string, value string, host string ) string {
	return fmt.Sprintf( "{event: %s, retVal: %s, nodes: %s}", event, value, host )
}

// FormatLifecycle builds the {nodes: H, event: E, agent: A} body used for the
// AgentLoadDone/AgentUnloadDone lifecycle triggers (spec §8 scenario a/b).
func FormatLifecycle( event string, agent string, host string ) string {
	return fmt.Sprintf( "{nodes: %s, event: %s, agent: %s}", host, event, agent )
}
