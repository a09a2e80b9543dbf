// Package settings gathers the run time configuration from flags and the environment
package settings

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
)

// where LOAD and SAVE keep programs
const (
	StoreDir    = "dir"    // a directory of .bas files
	StoreSQLite = "sqlite" // a SQLite database
	StoreHTTP   = "http"   // a program server
)

// EnvPrefix starts the name of every environment variable I look at
const EnvPrefix = "C64BASIC_"

// Config holds every setting
type Config struct {
	Store  string // StoreDir, StoreSQLite or StoreHTTP
	Dir    string // program directory
	DB     string // SQLite file
	Server string // program server URL
	Serve  bool   // run as a program server instead of a REPL
	Listen string // address the server listens on
	Debug  bool   // debug logging
	Dump   bool   // dump each parsed immediate line
	Run    string // program to load and run at startup
}

// ErrBadStore is returned for an unknown -store value
var ErrBadStore = errors.New("unknown store")

// Load parses args, any flag not given falls back to its
// C64BASIC_ environment variable and then to the default
func Load(name string, args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	fs.StringVar(&cfg.Store, "store", envString(getenv, "STORE", StoreDir), "program storage: dir, sqlite or http")
	fs.StringVar(&cfg.Dir, "dir", envString(getenv, "DIR", "."), "directory for LOAD and SAVE")
	fs.StringVar(&cfg.DB, "db", envString(getenv, "DB", "programs.db"), "SQLite file for LOAD and SAVE")
	fs.StringVar(&cfg.Server, "server", envString(getenv, "SERVER", "http://localhost:8080"), "program server URL")
	fs.BoolVar(&cfg.Serve, "serve", envBool(getenv, "SERVE"), "serve programs over HTTP")
	fs.StringVar(&cfg.Listen, "listen", envString(getenv, "LISTEN", ":8080"), "listen address")
	fs.BoolVar(&cfg.Debug, "debug", envBool(getenv, "DEBUG"), "debug logging")
	fs.BoolVar(&cfg.Dump, "dump", envBool(getenv, "DUMP"), "dump parsed statements")
	fs.StringVar(&cfg.Run, "run", envString(getenv, "RUN", ""), "program to run at startup")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case StoreDir, StoreSQLite, StoreHTTP:
	default:
		return nil, fmt.Errorf("%w %q", ErrBadStore, cfg.Store)
	}

	return cfg, nil
}

func envString(getenv func(string) string, key, def string) string {
	if getenv == nil {
		return def
	}
	if v := getenv(EnvPrefix + key); len(v) > 0 {
		return v
	}
	return def
}

// anything strconv can't read counts as false
func envBool(getenv func(string) string, key string) bool {
	b, _ := strconv.ParseBool(envString(getenv, key, "false"))
	return b
}
