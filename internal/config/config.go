// Package config defines PicoRedis's startup configuration (§6) and loads
// it from command-line flags, following the teacher's preference for a
// small, explicit, named-field struct over environment-variable sprawl.
package config

import (
	"flag"
)

// Config is PicoRedis's full startup configuration, §6.
type Config struct {
	Port                 uint16
	BindHost             string
	// Backlog is accepted and recognized per §6 but is inert: net.Listen
	// has no portable way to set the TCP accept backlog, so the OS default
	// applies regardless of this value.
	Backlog              int
	PeriodicFlushEnabled bool
	PeriodicFlushSeconds float32
	DataDir              string
}

// Defaults, §6.
const (
	DefaultPort                 = 6380
	DefaultBindHost             = "::"
	DefaultBacklog              = 1024
	DefaultPeriodicFlushEnabled = true
	DefaultPeriodicFlushSeconds = 60
	DefaultDataDir              = "./data"
)

// Load parses args (typically os.Args[1:]) into a Config, applying §6's
// defaults for any flag not supplied.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("picoredis-server", flag.ContinueOnError)
	cfg := &Config{}

	var port int
	fs.IntVar(&port, "port", DefaultPort, "TCP port to listen on")
	fs.StringVar(&cfg.BindHost, "bind", DefaultBindHost, "address to bind the listener to")
	fs.IntVar(&cfg.Backlog, "backlog", DefaultBacklog, "TCP listen backlog")
	fs.BoolVar(&cfg.PeriodicFlushEnabled, "periodic-flush", DefaultPeriodicFlushEnabled, "enable the periodic background flush")
	var flushSeconds float64
	fs.Float64Var(&flushSeconds, "flush-interval", DefaultPeriodicFlushSeconds, "seconds between periodic flushes")
	fs.StringVar(&cfg.DataDir, "data-dir", DefaultDataDir, "directory holding each database's persisted file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Port = uint16(port)
	cfg.PeriodicFlushSeconds = float32(flushSeconds)
	return cfg, nil
}
