// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the webpen server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DataFile: path of the JSON document holding all users, projects and profiles.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use test defaults in prod.
//   - SessionValidityDuration: lifetime of an issued session token.
//   - StatsBaseURL: base URL of the GitHub-compatible stats API; empty means api.github.com.
//   - StatsTimeout: upper bound on a single profile-stats lookup.
type Config struct {
	EndpointAddr            string
	DataFile                string
	SecretKey               string
	SessionValidityDuration time.Duration
	StatsBaseURL            string
	StatsTimeout            time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DataFile = "data/users_data.json"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 24 * time.Hour
	c.StatsBaseURL = ""
	c.StatsTimeout = 3 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
