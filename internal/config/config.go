// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Supported values of enumerated settings.
const (
	// AuthModeHeader reads the bearer token from the Authorization header.
	AuthModeHeader = "header"
	// AuthModeCookie reads the bearer token from the access_token cookie.
	AuthModeCookie = "cookie"

	// DriverPostgres selects PostgreSQL through the pgx stdlib driver.
	DriverPostgres = "pgx"
	// DriverSQLite selects an embedded SQLite database file.
	DriverSQLite = "sqlite3"
	// DriverMySQL selects MySQL through go-sql-driver/mysql.
	DriverMySQL = "mysql"

	// IDAllocationSequential reads the highest note id and inserts id+1
	// without a transaction.
	IDAllocationSequential = "sequential"
	// IDAllocationTransactional performs the same read and insert inside a
	// serializable transaction and retries on conflict.
	IDAllocationTransactional = "transactional"
)

// StructuredConfig is the full server configuration. Every section is read
// from environment variables with its own prefix and may be overridden by
// command-line flags and a JSON file.
type StructuredConfig struct {
	App App `envPrefix:"APP_"`

	Storage Storage `envPrefix:"STORAGE_"`

	Server Server `envPrefix:"SERVER_"`

	Adapter Adapter `envPrefix:"ADAPTER_"`

	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath points at an optional JSON file with overrides.
	JSONFilePath string `env:"CONFIG"`

	// DotEnvPath points at an optional .env file loaded before the
	// environment is parsed.
	DotEnvPath string `env:"DOTENV_FILE"`
}

// App holds authentication and application-wide settings.
type App struct {
	// TokenSignKey is the HMAC secret tokens are signed with.
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of every issued token.
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the token TTL.
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordCost is the bcrypt work factor.
	PasswordCost int `env:"PASSWORD_COST"`

	Version string `env:"VERSION"`

	LogLevel string `env:"LOG_LEVEL"`
}

// Server holds HTTP transport settings.
type Server struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AuthMode is either AuthModeHeader or AuthModeCookie.
	AuthMode string `env:"AUTH_MODE"`

	// CookieSecure marks the access token cookie as Secure.
	CookieSecure bool `env:"COOKIE_SECURE"`

	// MaxUploadSize bounds a multipart note request in bytes.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`
}

// Storage groups the persistence backends.
type Storage struct {
	DB DB `envPrefix:"DB_"`

	Objects Objects `envPrefix:"OBJECTS_"`

	Cache Cache `envPrefix:"CACHE_"`
}

// DB configures the credential and note store.
type DB struct {
	// Driver is DriverPostgres, DriverSQLite or DriverMySQL.
	Driver string `env:"DRIVER"`

	DSN string `env:"DATABASE_URI"`

	// NoteIDAllocation is IDAllocationSequential or IDAllocationTransactional.
	NoteIDAllocation string `env:"NOTE_ID_ALLOCATION"`

	// MaxIDAttempts bounds transactional id allocation retries.
	MaxIDAttempts int `env:"MAX_ID_ATTEMPTS"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// Objects configures the S3 compatible attachment bucket.
type Objects struct {
	Bucket string `env:"BUCKET"`

	Region string `env:"REGION"`

	// Endpoint overrides the AWS endpoint, e.g. for MinIO.
	Endpoint string `env:"ENDPOINT"`

	AccessKey string `env:"ACCESS_KEY"`

	SecretKey string `env:"SECRET_KEY"`

	// CDNBaseURL, when set, is used to build public attachment URLs.
	CDNBaseURL string `env:"CDN_BASE_URL"`

	UsePathStyle bool `env:"USE_PATH_STYLE"`

	// MaxAttempts bounds upload attempts, the first one included.
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY"`
}

// Cache configures the optional token denylist.
type Cache struct {
	// RedisURL enables logout revocation when set.
	RedisURL string `env:"REDIS_URL"`
}

// Adapter configures the API client used by the command-line tool.
type Adapter struct {
	HTTPAddress string `env:"ADDRESS"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers configures background jobs.
type Workers struct {
	// DBStatsInterval is the sampling period of the connection pool gauges.
	DBStatsInterval time.Duration `env:"DB_STATS_INTERVAL"`
}

// GetStructuredConfig builds the server configuration from, in increasing
// priority: built-in defaults, the .env file, environment variables,
// command-line flags and the JSON file. The result is validated.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-diary-keeper",
			TokenDuration: 15 * time.Minute,
			PasswordCost:  10,
			Version:       "dev",
			LogLevel:      "debug",
		},
		Storage: Storage{
			DB: DB{
				Driver:           DriverPostgres,
				NoteIDAllocation: IDAllocationSequential,
				MaxIDAttempts:    5,
				MaxOpenConns:     10,
			},
			Objects: Objects{
				Region:         "us-east-1",
				MaxAttempts:    3,
				RetryBaseDelay: 200 * time.Millisecond,
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
			AuthMode:       AuthModeHeader,
			MaxUploadSize:  64 << 20,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Workers: Workers{
			DBStatsInterval: 15 * time.Second,
		},
		DotEnvPath: ".env",
	}
}
