// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file, and
// environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string

	// JWTSecret is the HMAC key used to sign and verify session tokens.
	// It is read once at startup and injected into the token issuer.
	JWTSecret string

	// TokenTTL is the lifetime of an issued session token. Tokens are not
	// revocable; a compromised token stays valid until the TTL elapses.
	TokenTTL time.Duration

	// BcryptCost is the bcrypt work factor used when hashing passwords.
	BcryptCost int

	// TrustTokenClearance selects the gate's clearance source: when true,
	// the clearance embedded in the token is trusted (stale until expiry);
	// when false, the stored clearance is re-read on every request.
	TrustTokenClearance bool

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "s", "", "token signing secret")
	flag.DurationVar(&options.TokenTTL, "t", time.Hour, "session token lifetime")
	flag.BoolVar(&options.TrustTokenClearance, "trust-token", false, "trust the clearance embedded in tokens instead of re-reading it")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	options.BcryptCost = bcrypt.DefaultCost
}

// Parse parses the command-line flags, the optional JSON config file, and
// environment variables to set configuration values. Environment variables
// take precedence over the file, which takes precedence over flags.
// It returns a pointer to the Options struct containing the parsed values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("invalid TOKEN_TTL %q: %v", ttl, err)
		}
		options.TokenTTL = d
	}
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		c, err := strconv.Atoi(cost)
		if err != nil {
			log.Fatalf("invalid BCRYPT_COST %q: %v", cost, err)
		}
		options.BcryptCost = c
	}
	if trust := os.Getenv("TRUST_TOKEN_CLEARANCE"); trust != "" {
		b, err := strconv.ParseBool(trust)
		if err != nil {
			log.Fatalf("invalid TRUST_TOKEN_CLEARANCE %q: %v", trust, err)
		}
		options.TrustTokenClearance = b
	}

	return options
}
