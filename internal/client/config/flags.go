package config

import (
	"flag"
	"os"
	"time"

	"github.com/arthlor/yeser/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags:
//
//	-u string   backend base URL
//	-k string   backend API key
//	-t int      request timeout in seconds
//	-d string   local cache database path
//
// Arguments are filtered through flagx.FilterArgs so parsing here never
// interferes with flags owned by other stages.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-k", "-t", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendURL, "u", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.BackendAPIKey, "k", cfg.BackendAPIKey, "backend API key")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "local cache database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
