package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	CORSOrigin string
	LogMode    string

	// DBDriver selects the store backend: postgres, sqlite, mongo or memory.
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	VideoCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration
	// AdminEmails may use the admin endpoints. Empty means every authenticated user.
	AdminEmails []string

	OpenAI            Credential
	OpenAIBaseURL     string
	OpenAIModel       string
	YouTube           Credential
	YouTubeQPS        float64
	ProviderTimeout   time.Duration
	EnrichConcurrency int
	// EnrichTimeout bounds one enrichment request; lookups still running are dropped.
	EnrichTimeout time.Duration

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

func LoadConfig() (*Config, error) {
	envErr := godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "4000"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
		LogMode:           getEnv("LOG_MODE", "development"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "memory")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "learnpath"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		SQLitePath:        getEnv("SQLITE_PATH", "learnpath.db"),
		MongoURI:          getEnv("MONGODB_URI", ""),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "learnpath"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		VideoCacheTTL:     getEnvDuration("VIDEO_CACHE_TTL", 6*time.Hour),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		JWTTTL:            getEnvDuration("JWT_TTL", 7*24*time.Hour),
		AdminEmails:       getEnvList("ADMIN_EMAILS"),
		OpenAI:            NewCredential(getEnv("OPENAI_API_KEY", ""), OpenAIPlaceholder),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "liquid/lfm-2.5-1.2b-thinking:free"),
		YouTube:           NewCredential(getEnv("YOUTUBE_API_KEY", ""), YouTubePlaceholder),
		YouTubeQPS:        getEnvFloat("YOUTUBE_QPS", 5),
		ProviderTimeout:   getEnvDuration("PROVIDER_TIMEOUT", 20*time.Second),
		EnrichConcurrency: getEnvInt("ENRICH_CONCURRENCY", 6),
		EnrichTimeout:     getEnvDuration("ENRICH_TIMEOUT", 45*time.Second),
		EnvFileLoaded:     envErr == nil,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvList splits a comma separated value, lowercasing and dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsAdmin reports whether email may use the admin endpoints.
func (c *Config) IsAdmin(email string) bool {
	if len(c.AdminEmails) == 0 {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

func getEnvInt(key string, defaultValue int) int {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultValue
	}
	return i
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
