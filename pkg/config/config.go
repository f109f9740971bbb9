package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	StorageBackend    string
	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool

	MediaBackend        string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3UseSSL            bool
	S3PublicURL         string

	RedisAddr       string
	RateLimit       int64
	RateLimitWindow time.Duration

	JWTSecret   string
	JWTTTL      time.Duration
	RequireAuth bool

	FirebaseCredentialsPath string
	MetricsPort             string
	PublicDir               string
	StoryTTL                time.Duration
	MaxUploadSize           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:     getEnv("PORT", "3002"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", "mongo")),
		MongoURI:          getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "social_media_app"),
		MongoTransactions: getEnvBool("MONGO_TRANSACTIONS", false),

		MediaBackend:        strings.ToLower(getEnv("MEDIA_BACKEND", "cloudinary")),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "zynq_media"),
		S3Endpoint:          getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
		S3Bucket:            getEnv("S3_BUCKET", "zynq-media"),
		S3UseSSL:            getEnvBool("S3_USE_SSL", false),
		S3PublicURL:         getEnv("S3_PUBLIC_URL", "http://localhost:9000"),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RateLimit:       int64(getEnvInt("RATE_LIMIT", 120)),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		JWTSecret:   getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTTTL:      getEnvDuration("JWT_TTL", 72*time.Hour),
		RequireAuth: getEnvBool("REQUIRE_AUTH", false),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		PublicDir:               getEnv("PUBLIC_DIR", "public"),
		StoryTTL:                getEnvDuration("STORY_TTL", 24*time.Hour),
		MaxUploadSize:           getEnv("MAX_UPLOAD_SIZE", "100M"),
	}
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logrus.Warnf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		logrus.Warnf("Invalid boolean for %s=%q, using %t", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logrus.Warnf("Invalid duration for %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}
