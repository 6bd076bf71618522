package config

import (
	"flag"
	"os"
	"time"

	"github.com/asmolyar/webpen/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-f string   path to the JSON data file
//	-s string   JWT HMAC secret key
//	-t int      session token validity, hours
//	-g string   stats API base URL (empty: api.github.com)
//	-o int      stats lookup timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-s", "-t", "-g", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "path to the JSON data file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Hours()), "session token validity (in hours)")

	fs.StringVar(&config.StatsBaseURL, "g", config.StatsBaseURL, "stats API base URL")
	statsTimeout := fs.Int("o", int(config.StatsTimeout.Seconds()), "stats lookup timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Hour
	config.StatsTimeout = time.Duration(*statsTimeout) * time.Second
}
