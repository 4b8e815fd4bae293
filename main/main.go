// vi: sw=4 ts=4:

/*

	Mnemonic:	magi-agent
	Abstract:	Command line entry point for an agent process: parses the
				positional and key=value arguments (spec §6), builds an
				AgentConfig, registers the built-in demonstration functions,
				and runs the agent loop until stop or a fatal startup error.

	Date:		29 July 2026
*/

package main

import (
	"fmt"
	"os"

	"github.com/att/gopkgs/bleater"

	"github.com/deter-project/magi/config"
	"github.com/deter-project/magi/logging"
	"github.com/deter-project/magi/registry"
	"github.com/deter-project/magi/runtime"
)

var sheep *bleater.Bleater

func usage() {
	fmt.Fprintf( os.Stderr, "usage: magi-agent agent_name dock_name node_config_file experiment_config_file [key=value ...]\n" )
}

func main() {
	args := os.Args[1:]

	cfg, _, err := config.ParseArgs( args )
	if err != nil {
		usage()
		os.Exit( 2 )
	}

	logOut := os.Stderr
	sheep = logging.Master( logOut, cfg.LogLevel )

	agent, err := runtime.New( cfg, sheep )
	if err != nil {
		sheep.Baa( 0, "ERR: %s", err )
		os.Exit( 1 )
	}

	registerBuiltins( agent )

	if err := agent.Run(); err != nil {
		sheep.Baa( 0, "ERR: agent exited with error: %s", err )
		os.Exit( 1 )
	}

	os.Exit( 0 )
}

// registerBuiltins adds two demonstration functions exercising the IntBox and
// Dictionary return kinds (spec §8 scenarios c/d) -- real deployments register their own
// functions here instead.
func registerBuiltins( agent *runtime.Agent ) {
	agent.Register( "echo", func( x int ) int { return x }, registry.IntBox )

	agent.Register( "stats", func() [][2]string {
		return [][2]string{ { "mean", "3.5" }, { "count", "2" } }
	}, registry.Dictionary )
}
