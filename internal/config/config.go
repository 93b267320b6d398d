package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrConfig = errors.New("invalid configuration")

// DefaultSQLiteDSN is a process-wide in-memory database that survives the
// pool recycling its connection.
const DefaultSQLiteDSN = "file::memory:?cache=shared"

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	JWTSecret []byte
	JWTTTL    time.Duration

	DBDriver     string
	DatabaseURL  string
	PGSQLDriver  string
	SeedDefaults bool

	KafkaBrokers []string
	EventsTopic  string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	MetricsNamespace string
}

// LoadDotEnv reads the given files into the environment. Missing files are
// reported and ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Printf("notice: %s not loaded: %v, using process environment", f, err)
		}
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "rbac_api"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:    EnvDurationDefault("JWT_TTL", time.Hour),

		DBDriver:     strings.ToLower(EnvDefault("DB_DRIVER", "sqlite")),
		DatabaseURL:  EnvDefault("DATABASE_URL", DefaultSQLiteDSN),
		PGSQLDriver:  strings.ToLower(EnvDefault("PG_SQL_DRIVER", "pgx")),
		SeedDefaults: EnvBoolDefault("SEED_DEFAULTS", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "user_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "test_objects"),

		MetricsNamespace: EnvDefault("METRICS_NAMESPACE", "rbac"),
	}
}

func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrConfig)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("%w: JWT_TTL must be positive", ErrConfig)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", ErrConfig, c.DBDriver)
	}
	if c.DBDriver == "postgres" && (c.DatabaseURL == DefaultSQLiteDSN || c.DatabaseURL == ":memory:") {
		return fmt.Errorf("%w: DATABASE_URL is required for postgres", ErrConfig)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
