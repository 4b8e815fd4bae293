// vi: sw=4 ts=4:

/*

	Mnemonic:	config
	Abstract:	AgentConfig assembly from positional CLI args, key=value CLI
				overrides, and the node configuration YAML file. Grounded on
				magiCLib/Agent.c's parse_args/setConfiguration/parseConfFile and
				tegu gizmos/tools.go's Toks2map/Mixtoks2map key=value splitting.

	Date:		29 July 2026
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/deter-project/magi/logging"
)

// AgentConfig is the populated record the runtime is built from (spec §3).
type AgentConfig struct {
	AgentName string
	DockName  string
	HostName  string

	CommHost  string
	CommPort  int
	CommGroup string

	LogFile  string
	LogLevel uint

	DBLocation string
	DBPort     int
}

// NodeConfig mirrors the two node-config YAML sections the core reads
// (spec §6): database.collectorPort / database.sensorToCollectorMap, and
// localInfo.logDir / localInfo.processAgentsCommPort.
type NodeConfig struct {
	Database struct {
		CollectorPort        int               `yaml:"collectorPort"`
		SensorToCollectorMap map[string]string `yaml:"sensorToCollectorMap"`
	} `yaml:"database"`

	LocalInfo struct {
		LogDir                string `yaml:"logDir"`
		ProcessAgentsCommPort int    `yaml:"processAgentsCommPort"`
	} `yaml:"localInfo"`
}

// LoadNodeConfig decodes the node configuration YAML file at path.
func LoadNodeConfig( path string ) ( *NodeConfig, error ) {
	raw, err := os.ReadFile( path )
	if err != nil {
		return nil, err
	}
	var nc NodeConfig
	if err := yaml.Unmarshal( raw, &nc ); err != nil {
		return nil, err
	}
	return &nc, nil
}

// CollectorFor resolves the collector host for sensorName, falling back to
// the "__DEFAULT__" entry when the sensor has no specific mapping (spec §6).
func ( nc *NodeConfig ) CollectorFor( sensorName string ) string {
	if host, ok := nc.Database.SensorToCollectorMap[sensorName]; ok {
		return host
	}
	return nc.Database.SensorToCollectorMap["__DEFAULT__"]
}

// ParseArgs builds an AgentConfig from the CLI per spec §6: positional
// agent_name, dock_name, node_config_file, experiment_config_file, followed
// by any number of key=value pairs recognized for commGroup, commHost,
// commPort, hostname, logfile, loglevel (execute is recognized but ignored
// by the core). Missing positional arguments is a spec §7 configuration
// error -- the caller is expected to exit with code 2.
func ParseArgs( args []string ) ( *AgentConfig, string, error ) {
	if len( args ) < 4 {
		return nil, "", fmt.Errorf( "config: expected agent_name dock_name node_config_file experiment_config_file, got %d args", len( args ) )
	}

	cfg := &AgentConfig{
		AgentName: args[0],
		DockName:  args[1],
		CommHost:  "localhost",
		CommPort:  6667,
		LogLevel:  logging.LevelInfo,
	}
	experimentConfigFile := args[3]

	kv := Toks2map( args[4:] )

	if v, ok := kv["commGroup"]; ok {
		cfg.CommGroup = v
	}
	if v, ok := kv["commHost"]; ok {
		cfg.CommHost = v
	}
	if v, ok := kv["commPort"]; ok {
		if n, err := strconv.Atoi( v ); err == nil {
			cfg.CommPort = n
		}
	}
	if v, ok := kv["hostname"]; ok {
		cfg.HostName = v
	}
	if v, ok := kv["logfile"]; ok {
		cfg.LogFile = v
	}
	if v, ok := kv["loglevel"]; ok {
		cfg.LogLevel = logging.ParseLevel( v )
	}

	if nc, err := LoadNodeConfig( args[2] ); err == nil {
		if cfg.DBPort == 0 {
			cfg.DBPort = nc.Database.CollectorPort
		}
		if cfg.HostName != "" {
			cfg.DBLocation = nc.CollectorFor( cfg.HostName )
		}
		if cfg.LogFile == "" && nc.LocalInfo.LogDir != "" {
			cfg.LogFile = nc.LocalInfo.LogDir + "/" + cfg.AgentName + ".log"
		}
	}

	if cfg.DBLocation == cfg.HostName && cfg.HostName != "" {
		cfg.DBLocation = "127.0.0.1"
	}

	return cfg, experimentConfigFile, nil
}

// Toks2map splits a list of "key=value" tokens into a map, silently skipping
// tokens with no '=' -- the same lenient shape as tegu's gizmos/tools.go
// Toks2map/Mixtoks2map helpers.
func Toks2map( toks []string ) map[string]string {
	m := make( map[string]string, len( toks ) )
	for _, tok := range toks {
		idx := strings.Index( tok, "=" )
		if idx < 0 {
			continue
		}
		m[tok[0:idx]] = tok[idx+1:]
	}
	return m
}
