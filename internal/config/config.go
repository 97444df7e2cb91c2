package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	DBName         string
	SiteCollection string
	UserCollection string

	SecretKey   string
	TokenTTL    time.Duration
	Port        string
	GinMode     string
	CORSOrigins []string

	MaxUploadSize int64
	BcryptCost    int

	// Cloudinary
	CloudName        string
	CloudAPIKey      string
	CloudSecret      string
	CloudinaryFolder string

	// OpenTelemetry
	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "skb"),
		SiteCollection: getEnv("SITE_COLLECTION", "web data"),
		UserCollection: getEnv("USER_COLLECTION", "user"),

		SecretKey:   getEnv("SECRET_KEY", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),
		Port:        getEnv("PORT", "3000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "https://frontend-skb.vercel.app")),

		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 10485760), // 10MB
		BcryptCost:    getEnvInt("BCRYPT_COST", 10),

		CloudName:        getEnv("CLOUD_NAME", ""),
		CloudAPIKey:      getEnv("CLOUD_API_KEY", ""),
		CloudSecret:      getEnv("CLOUD_SECRET", ""),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "magang"),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: getEnvFloat64("OTEL_SAMPLE_RATIO", 0.1),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if len(c.SecretKey) < 32 {
		return fmt.Errorf("SECRET_KEY is required and must be at least 32 characters - set it in .env file")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode; cookies are marked Secure then.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
