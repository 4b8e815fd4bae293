// vi: sw=4 ts=4:

package registry

import "testing"

func TestDispatchIntEcho( t *testing.T ) {
	r := New( nil, func() {} )
	r.Register( "echo", func( x int ) int { return x }, IntBox )

	result, ok := r.Dispatch( "echo", []string{ "42" } )
	if !ok {
		t.Fatalf( "expected dispatch to succeed" )
	}
	if result.Kind() != IntBox {
		t.Fatalf( "expected IntBox return kind" )
	}
	if result.Render() != "42" {
		t.Fatalf( "got %q want %q", result.Render(), "42" )
	}
}

func TestDispatchDictionary( t *testing.T ) {
	r := New( nil, func() {} )
	r.Register( "stats", func() [][2]string {
		return [][2]string{ { "mean", "3.5" }, { "count", "2" } }
	}, Dictionary )

	result, ok := r.Dispatch( "stats", nil )
	if !ok {
		t.Fatalf( "expected dispatch to succeed" )
	}
	if result.Kind() != Dictionary {
		t.Fatalf( "expected Dictionary return kind" )
	}
	if len( result.Dict() ) != 2 {
		t.Fatalf( "expected 2 pairs, got %d", len( result.Dict() ) )
	}
}

func TestDispatchUnknownMethod( t *testing.T ) {
	r := New( nil, func() {} )

	result, ok := r.Dispatch( "doesNotExist", nil )
	if ok {
		t.Fatalf( "expected dispatch to report failure" )
	}
	if result.Render() != False {
		t.Fatalf( "got %q want %q", result.Render(), False )
	}
}

func TestDispatchArityMismatch( t *testing.T ) {
	r := New( nil, func() {} )
	r.Register( "echo", func( x int ) int { return x }, IntBox )

	result, ok := r.Dispatch( "echo", []string{ "1", "2" } )
	if ok {
		t.Fatalf( "expected dispatch to report failure on arity mismatch" )
	}
	if result.Render() != False {
		t.Fatalf( "got %q want %q", result.Render(), False )
	}
}

func TestDispatchLenientIntCoercion( t *testing.T ) {
	r := New( nil, func() {} )
	r.Register( "echo", func( x int ) int { return x }, IntBox )

	result, ok := r.Dispatch( "echo", []string{ "not-a-number" } )
	if !ok {
		t.Fatalf( "expected dispatch to still succeed with lenient coercion" )
	}
	if result.Render() != "0" {
		t.Fatalf( "expected unparseable int to coerce to 0, got %q", result.Render() )
	}
}

func TestDispatchVoidStop( t *testing.T ) {
	stopped := false
	r := New( nil, func() { stopped = true } )

	result, ok := r.Dispatch( "stop", nil )
	if !ok {
		t.Fatalf( "expected stop dispatch to succeed" )
	}
	if !stopped {
		t.Fatalf( "expected onStop callback invoked" )
	}
	if result.Render() != "True" {
		t.Fatalf( "expected VOID render of True, got %q", result.Render() )
	}
}

func TestDispatchStringReturn( t *testing.T ) {
	r := New( nil, func() {} )
	r.Register( "greet", func( name string ) string { return "hello " + name }, StringReturn )

	result, ok := r.Dispatch( "greet", []string{ "world" } )
	if !ok {
		t.Fatalf( "expected dispatch to succeed" )
	}
	if result.Render() != "hello world" {
		t.Fatalf( "got %q", result.Render() )
	}
}
