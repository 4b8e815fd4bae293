// vi: sw=4 ts=4:

/*

	Mnemonic:	runtime
	Abstract:	The agent lifecycle controller: dials the daemon, announces
				AgentLoadDone, runs the receive loop (parse, dispatch, optional
				trigger reply), drains on stop, announces AgentUnloadDone.
				Grounded on magiCLib/Agent.c's initializeAgent/runAgent/
				doMessageAction, with the 100ms sleep-poll replaced by a
				channel-blocking receive per spec §9.

	Date:		29 July 2026
*/

package runtime

import (
	"fmt"

	"github.com/att/gopkgs/bleater"

	"github.com/deter-project/magi/config"
	"github.com/deter-project/magi/logging"
	"github.com/deter-project/magi/messenger"
	"github.com/deter-project/magi/payload"
	"github.com/deter-project/magi/registry"
	"github.com/deter-project/magi/transport"
	"github.com/deter-project/magi/wire"
)

// State is one point in the NEW -> CONNECTED -> DRAINING -> TERMINAL
// lifecycle (spec §4.6).
type State int

const (
	StateNew State = iota
	StateConnected
	StateDraining
	StateTerminal
)

// Agent wires the transport, messenger, and registry together and runs the
// receive/dispatch loop.
type Agent struct {
	cfg   *config.AgentConfig
	sheep *bleater.Bleater

	xport *transport.Transport
	msgr  *messenger.Messenger
	reg   *registry.Registry

	state   State
	stopCh  chan struct{}
	stopped bool
}

// New dials the daemon and builds an Agent ready for Register calls. A dial
// failure here is the spec §7 "unreachable daemon" error, fatal during
// initialization -- callers are expected to exit with code 1.
func New( cfg *config.AgentConfig, master *bleater.Bleater ) ( *Agent, error ) {
	sheep := logging.Child( master, "runtime", nil )

	xport, err := transport.Dial( cfg.CommHost, cfg.CommPort, sheep )
	if err != nil {
		return nil, fmt.Errorf( "runtime: connect to daemon failed: %w", err )
	}

	a := &Agent{
		cfg:    cfg,
		sheep:  sheep,
		xport:  xport,
		msgr:   messenger.New( xport ),
		state:  StateNew,
		stopCh: make( chan struct{} ),
	}
	a.reg = registry.New( sheep, a.requestStop )

	return a, nil
}

// Register exposes the registry to user code so it can add functions before
// Run is called.
func ( a *Agent ) Register( name string, fn interface{}, returnKind registry.ReturnKind ) {
	a.reg.Register( name, fn, returnKind )
}

func ( a *Agent ) requestStop() {
	if !a.stopped {
		a.stopped = true
		close( a.stopCh )
	}
}

// Run starts the transport, announces AgentLoadDone, and processes inbound
// messages until the "stop" function is dispatched, then drains per spec
// §4.6/§5's cancellation ordering. It returns once TERMINAL is reached.
func ( a *Agent ) Run() error {
	a.xport.Start()

	a.msgr.ListenDock( a.cfg.DockName )
	if a.cfg.CommGroup != "" {
		a.msgr.JoinGroup( a.cfg.CommGroup )
	}

	a.state = StateConnected
	a.msgr.Trigger( "control", wire.ContentYAML, []byte( payload.FormatLifecycle( "AgentLoadDone", a.cfg.AgentName, a.cfg.HostName ) ) )

	a.receiveLoop()

	a.state = StateDraining
	a.msgr.UnlistenDock( a.cfg.DockName )
	a.msgr.Trigger( "control", wire.ContentYAML, []byte( payload.FormatLifecycle( "AgentUnloadDone", a.cfg.AgentName, a.cfg.HostName ) ) )

	a.xport.Close()
	a.state = StateTerminal

	return nil
}

// receiveLoop pops inbound requests until requestStop fires, dispatching
// each one inline on this goroutine (spec §5: "dispatch runs inline on the
// agent loop thread, not the listener thread").
func ( a *Agent ) receiveLoop() {
	for {
		req, ok := a.xport.Rx.NextBlocking( a.stopCh )
		if !ok {
			return
		}
		a.handleRequest( req )

		select {
		case <-a.stopCh:
			return
		default:
		}
	}
}

// handleRequest implements doMessageAction: decode, parse payload, dispatch,
// and emit a trigger if requested or the return kind is DICTIONARY.
func ( a *Agent ) handleRequest( req *wire.AgentRequest ) {
	if req.Kind != wire.Message {
		return
	}

	msg, err := wire.DecodeMAGIMessage( req.Payload )
	if err != nil {
		a.sheep.Baa( 0, "ERR: runtime: dropping undecodable message: %s", err )
		return
	}

	p, _ := payload.Parse( msg.Data )

	result, _ := a.reg.Dispatch( p.Method, p.Args )

	if p.Trigger == "" && result.Kind() != registry.Dictionary {
		return
	}

	var body string
	if result.Kind() == registry.Dictionary {
		body = payload.FormatDictTrigger( p.Trigger, result.Dict(), a.cfg.HostName )
	} else {
		body = payload.FormatValueTrigger( p.Trigger, result.Render(), a.cfg.HostName )
	}

	a.msgr.Trigger( "control", wire.ContentYAML, []byte( body ) )
}

// State reports the agent's current lifecycle state.
func ( a *Agent ) State() State { return a.state }
