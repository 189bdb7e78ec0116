package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string

	StorageDriver    string
	S3Endpoint       string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3ForcePathStyle bool

	RateLimitBackend string
	DemoOrgSlug      string

	GitHubFeedbackToken string
	GitHubFeedbackRepo  string

	TrustedProxies   []string
	CORSAllowOrigins []string
	MaxRequestBytes  int64
}

// Load reads configuration from the environment, seeded from a .env file when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "ats"),
		DBPassword: getEnv("DB_PASSWORD", "ats"),
		DBName:     getEnv("DB_NAME", "applicant_tracking"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),

		StorageDriver:    getEnv("STORAGE_DRIVER", "s3"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3Bucket:         getEnv("S3_BUCKET", "applicant-documents"),
		S3ForcePathStyle: getBool("S3_FORCE_PATH_STYLE", true),

		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		DemoOrgSlug:      getEnv("DEMO_ORG_SLUG", ""),

		GitHubFeedbackToken: getEnv("GITHUB_FEEDBACK_TOKEN", ""),
		GitHubFeedbackRepo:  getEnv("GITHUB_FEEDBACK_REPO", ""),

		TrustedProxies:   getList("TRUSTED_PROXIES"),
		CORSAllowOrigins: getList("CORS_ALLOW_ORIGINS"),
		MaxRequestBytes:  int64(getInt("MAX_REQUEST_BYTES", 25<<20)),
	}
}

// FeedbackEnabled reports whether the GitHub feedback integration is configured.
func (c *Config) FeedbackEnabled() bool {
	return c.GitHubFeedbackToken != "" && c.GitHubFeedbackRepo != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
