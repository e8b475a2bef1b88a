// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers ports,
// TLS, log level and request limits; everything specific to InfluenceHub
// lives here and is passed to each lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool
	MongoMinPoolSize uint64 // Minimum connections kept warm

	// Access tokens
	JWTSecret      string        // HMAC signing key; 32+ chars required in prod
	JWTIssuer      string        // "iss" claim written and checked on every token
	AccessTokenTTL time.Duration // Lifetime of issued access tokens

	// Bootstrap administrator, created on startup when the email is unused.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminName     string

	// Browser origins allowed to call the API. Empty means "*".
	CORSAllowedOrigins []string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Prometheus endpoint at /metrics
	MetricsEnabled bool

	// Database deadline overrides; zero keeps the built-in default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Login throttling
	LoginIPLimit    int // attempts per address per minute
	LoginEmailLimit int // attempts per email per five minutes
}
