package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Signing secrets are deliberately not enforced
// here: a missing secret turns the affected endpoints into a logged 500
// instead of refusing to boot the whole service.
type Config struct {
	Env                string        // application environment (development, production)
	Port               string        // HTTP port to listen on
	BaseURL            string        // public web app URL used for links and redirects
	DatabaseURL        string        // MySQL DSN
	JWTSecret          string        // secret used to sign access tokens
	RefreshTokenSecret string        // secret used to sign refresh tokens
	AdminJWTSecret     string        // secret used to sign admin dashboard tokens
	AccessTTL          time.Duration // access token lifetime
	RefreshTTL         time.Duration // refresh token lifetime
	AdminTTL           time.Duration // admin token lifetime
	BcryptCost         int           // bcrypt cost for password hashing
	GoogleUserInfoURL  string        // userinfo endpoint used by the Google bridge
	AdminUsers         string        // admin credential table, email:hash[:role] comma separated
	RabbitMQURL        string        // broker for auth events; empty disables publishing
	Debug              bool          // expose internal error detail in 500 responses
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                getenv("APP_ENV", "development"),
		Port:               getenv("APP_PORT", "8080"),
		BaseURL:            strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:3000"), "/"),
		DatabaseURL:        must("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AdminJWTSecret:     os.Getenv("ADMIN_JWT_SECRET"),
		AccessTTL:          envDur("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:         envDur("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		AdminTTL:           envDur("ADMIN_TOKEN_TTL", 8*time.Hour),
		BcryptCost:         envInt("BCRYPT_COST", 12),
		GoogleUserInfoURL:  getenv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
		AdminUsers:         os.Getenv("ADMIN_USERS"),
		RabbitMQURL:        AMQPURL(),
		Debug:              envBool("DEBUG", false),
	}
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// AMQPURL returns RABBITMQ_URL, falling back to AMQP_URL.
func AMQPURL() string {
	return firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
