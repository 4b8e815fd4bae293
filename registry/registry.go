// vi: sw=4 ts=4:

/*

	Mnemonic:	registry
	Abstract:	Holds registered callables with declared signatures and dispatches
				a (name, string args) pair onto one of them. The ten arity-
				specific invocation arms of magiCLib/Agent.c's dispatchCall
				collapse to the single reflect.Value.Call site spec §9 licenses
				for languages with reflective invocation; the arity cap and the
				coercion/return-kind rules stay exactly as specified (§4.5).

	Date:		29 July 2026
*/

package registry

import (
	"reflect"

	"github.com/att/gopkgs/bleater"
	"github.com/att/gopkgs/clike"
)

// ArgKind is a declared argument type.
type ArgKind int

const (
	Int ArgKind = iota
	String
)

// ReturnKind is a declared return type (spec §3/§4.5).
type ReturnKind int

const (
	Void ReturnKind = iota
	IntBox
	StringReturn
	Dictionary
)

// MaxArity is the hard cap on registered-function arity the dispatcher
// enforces (spec §3, §4.5).
const MaxArity = 10

// Result is the tagged-union return value spec §9 calls for, replacing a
// separately-threaded retType string.
type Result struct {
	kind ReturnKind
	i    int64
	s    string
	dict [][2]string
}

// Kind reports which variant Result holds.
func ( r Result ) Kind() ReturnKind { return r.kind }

// VoidResult renders as the literal "True" (spec §4.5 step 5, VOID case).
func VoidResult() Result { return Result{ kind: Void } }

// IntResult wraps a freshly computed integer.
func IntResult( v int64 ) Result { return Result{ kind: IntBox, i: v } }

// StringResult wraps a string return value.
func StringResult( v string ) Result { return Result{ kind: StringReturn, s: v } }

// DictResult wraps an ordered list of (key, value) pairs.
func DictResult( pairs [][2]string ) Result { return Result{ kind: Dictionary, dict: pairs } }

// Dict returns the pairs backing a Dictionary result.
func ( r Result ) Dict() [][2]string { return r.dict }

// Render turns the value into the textual return the dispatcher emits
// upwards (spec §4.5 step 5); DICTIONARY rendering is the caller's job via
// the payload package, since it needs the surrounding {event, nodes} frame.
func ( r Result ) Render() string {
	switch r.kind {
	case Void:
		return "True"
	case IntBox:
		return formatInt( r.i )
	case StringReturn:
		return r.s
	default:
		return ""
	}
}

func formatInt( v int64 ) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [24]byte
	i := len( buf )
	for v > 0 {
		i--
		buf[i] = byte( '0' + v%10 )
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string( buf[i:] )
}

// False is the literal sentinel failure return (spec §4.5/§7): unknown
// method, arity mismatch, unknown argument kind, or arity-cap overflow all
// render this exact string with STRING return kind.
const False = "False"

// entry is one registered callable.
type entry struct {
	name       string
	argTypes   []ArgKind
	returnKind ReturnKind
	fn         reflect.Value
}

// Registry is the dynamic function table (spec §4.5).
type Registry struct {
	sheep   *bleater.Bleater
	entries map[string]entry
}

// New allocates an empty registry and auto-registers the distinguished
// "stop" entry that sets the stop flag (spec §4.5: "registered automatically
// at startup").
func New( sheep *bleater.Bleater, onStop func() ) *Registry {
	r := &Registry{
		sheep:   sheep,
		entries: make( map[string]entry ),
	}
	r.Register( "stop", func() { onStop() }, Void )
	return r
}

// Register adds fn to the table under name with the given declared return
// kind. fn's argument types are derived from its Go signature via reflection
// -- int-kinded parameters map to ArgKind Int, string-kinded ones to String.
// Arity beyond MaxArity is rejected outright; Register panics rather than
// silently truncating, since this is a programming error at startup, not a
// runtime dispatch condition.
func ( r *Registry ) Register( name string, fn interface{}, returnKind ReturnKind ) {
	v := reflect.ValueOf( fn )
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic( "registry: Register requires a function value" )
	}
	if t.NumIn() > MaxArity {
		panic( "registry: arity exceeds the 10-argument cap" )
	}

	argTypes := make( []ArgKind, t.NumIn() )
	for i := 0; i < t.NumIn(); i++ {
		switch t.In( i ).Kind() {
		case reflect.Int, reflect.Int64, reflect.Int32:
			argTypes[i] = Int
		default:
			argTypes[i] = String
		}
	}

	r.entries[name] = entry{
		name:       name,
		argTypes:   argTypes,
		returnKind: returnKind,
		fn:         v,
	}
}

// Dispatch implements spec §4.5 steps 1-7: lookup, arity check, coercion,
// invocation, return rendering. A miss or any validation failure yields
// (False result, false) -- the bool reports whether a registered function
// was actually found and invoked. The failure itself is logged here.
func ( r *Registry ) Dispatch( name string, args []string ) ( Result, bool ) {
	e, ok := r.entries[name]
	if !ok {
		if r.sheep != nil {
			r.sheep.Baa( 0, "ERR: dispatch: unknown function: %s", name )
		}
		return StringResult( False ), false
	}

	if len( args ) != len( e.argTypes ) {
		if r.sheep != nil {
			r.sheep.Baa( 0, "ERR: dispatch: arity mismatch for %s: got %d want %d", name, len( args ), len( e.argTypes ) )
		}
		return StringResult( False ), false
	}
	if len( args ) > MaxArity {
		return StringResult( False ), false
	}

	in := make( []reflect.Value, len( args ) )
	for i, kind := range e.argTypes {
		switch kind {
		case Int:
			in[i] = reflect.ValueOf( clike.Atoi( args[i] ) ).Convert( e.fn.Type().In( i ) )
		case String:
			in[i] = reflect.ValueOf( args[i] )
		default:
			if r.sheep != nil {
				r.sheep.Baa( 0, "ERR: dispatch: unknown data type for %s", name )
			}
			return StringResult( False ), false
		}
	}

	out := e.fn.Call( in )

	return renderReturn( e.returnKind, out ), true
}

// renderReturn converts the reflected call's outputs into the declared
// Result variant (spec §4.5 step 5).
func renderReturn( kind ReturnKind, out []reflect.Value ) Result {
	switch kind {
	case Void:
		return VoidResult()

	case IntBox:
		if len( out ) == 0 {
			return IntResult( 0 )
		}
		return IntResult( out[0].Int() )

	case StringReturn:
		if len( out ) == 0 {
			return StringResult( "" )
		}
		return StringResult( out[0].String() )

	case Dictionary:
		if len( out ) == 0 {
			return DictResult( nil )
		}
		pairs, _ := out[0].Interface().( [][2]string )
		return DictResult( pairs )

	default:
		return StringResult( False )
	}
}
