package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend base URL
//	-t int      request timeout in seconds
//	-d string   local database path
//	-l string   log format
//
// -t only overrides the timeout when it is given, so finer values from
// JSON or the environment survive. Only the flags above are picked out of os.Args with flagx.FilterArgs, so
// other loaders can share the command line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format: json, text or console")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
