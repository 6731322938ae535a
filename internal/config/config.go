// Package config holds the server settings: defaults first, then the
// environment, then command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the task server.
//
// An empty DatabaseDSN selects the in-memory stores.
type Config struct {
	Addr            string
	DatabaseDSN     string
	BcryptCost      int
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

func (c *Config) LoadDefaults() {
	c.Addr = ":4000"
	c.DatabaseDSN = ""
	c.BcryptCost = 10
	c.ShutdownTimeout = 15 * time.Second
	c.AllowedOrigins = []string{"*"}
}

// parseEnv overlays values from environment variables that are set.
func parseEnv(c *Config, getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("DB_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}
	if v := getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   listen address (e.g. ":4000")
//	-d string   MySQL DSN; empty keeps everything in memory
//	-c int      bcrypt cost
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "a", c.Addr, "address and port to run server")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "MySQL DSN")
	fs.IntVar(&c.BcryptCost, "c", c.BcryptCost, "bcrypt cost")

	return fs.Parse(args)
}

func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
