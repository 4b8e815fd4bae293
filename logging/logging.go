// vi: sw=4 ts=4:

/*

	Mnemonic:	logging
	Abstract:	Thin wrapper around the bleater leveled line logger establishing the
				master sheep for the agent process and the level names accepted on
				the command line and in configuration (DEBUG|INFO|WARN|ERROR).

	Date:		29 July 2026
*/

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/att/gopkgs/bleater"
)

// Level mirrors the four names spec'd for logfile/loglevel; bleater itself just
// wants a verbosity number where 0 is always emitted and larger numbers are
// progressively chattier, so DEBUG maps to the highest number.
const (
	LevelError uint = 0
	LevelWarn  uint = 1
	LevelInfo  uint = 2
	LevelDebug uint = 3
)

// ParseLevel converts one of DEBUG|INFO|WARN|ERROR (case insensitive) to the
// bleater verbosity it corresponds to. Unrecognised names fall back to INFO.
func ParseLevel( name string ) uint {
	switch strings.ToUpper( strings.TrimSpace( name ) ) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR", "ERR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Master creates the process-wide sheep that every package's own sheep is
// added as a child of, so a single -v/level bump cascades everywhere.
func Master( w io.Writer, level uint ) *bleater.Bleater {
	sheep := bleater.Mk_bleater( level, w )
	sheep.Set_prefix( "magi-agent" )
	return sheep
}

// Child allocates a package-level sheep with the given prefix and attaches it
// to master so the master's Set_level cascades down. Follows the pattern
// tegu's gizmos/init.go and managers/agent.go use for am_sheep/obj_sheep.
func Child( master *bleater.Bleater, prefix string, w io.Writer ) *bleater.Bleater {
	if w == nil {
		w = io.Discard
	}
	sheep := bleater.Mk_bleater( 0, w )
	sheep.Set_prefix( prefix )
	if master != nil {
		master.Add_child( sheep )
	}
	return sheep
}

// Errorf is a convenience used by packages that want a formatted error plus
// a matching bleat at error level in one call.
func Errorf( sheep *bleater.Bleater, format string, args ...interface{} ) error {
	msg := fmt.Sprintf( format, args... )
	if sheep != nil {
		sheep.Baa( LevelError, "ERR: %s", msg )
	}
	return fmt.Errorf( "%s", msg )
}
