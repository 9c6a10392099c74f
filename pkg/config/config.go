package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	Env         string

	ServerPort int

	DatabaseURL string
	SQLitePath  string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CORSOrigins []string
	StaticDir   string
	LogLevel    string
	TrustProxy  bool

	LoginRateLimit  int
	LoginRateWindow time.Duration

	AWSRegion string
	SSMPrefix string
}

func (c Config) Production() bool { return c.Env == "production" }

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "technotes"),
		Env:         EnvDefault("GO_ENV", "development"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8000),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  EnvDefault("SQLITE_PATH", "notes.db"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "notes"),

		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "http://localhost:3000")),
		StaticDir:   EnvDefault("STATIC_DIR", "public"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		TrustProxy:  EnvBoolDefault("TRUST_PROXY", false),

		LoginRateLimit:  EnvIntDefault("LOGIN_RATE_LIMIT", 5),
		LoginRateWindow: EnvDurationDefault("LOGIN_RATE_WINDOW", time.Minute),

		AWSRegion: EnvDefault("AWS_REGION", "us-east-2"),
		SSMPrefix: EnvDefault("SSM_PREFIX", "/technotes/prod/"),
	}
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

// EnvDurationDefault accepts Go duration strings ("90s", "1m") or a bare number of seconds.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
