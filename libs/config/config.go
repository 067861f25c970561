// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers supported by the course service
const (
	StoreDriverMySQL = "mysql"
	StoreDriverMongo = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	StoreDriver string
	Database    DatabaseConfig
	Mongo       MongoConfig
	Server      ServerConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	JWT         JWTConfig
	Gemini      GeminiConfig
	YouTube     YouTubeConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               int
	RateLimitPerMinute int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds session token configuration.
// An empty secret disables session tokens entirely.
type JWTConfig struct {
	Secret string
}

// GeminiConfig holds generative text API settings
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// YouTubeConfig holds video search API settings
type YouTubeConfig struct {
	APIKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Store configuration
	storeDriver := strings.ToLower(os.Getenv("STORE_DRIVER"))
	if storeDriver == "" {
		storeDriver = StoreDriverMySQL // default driver
	}
	cfg.StoreDriver = storeDriver

	switch storeDriver {
	case StoreDriverMySQL:
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
	case StoreDriverMongo:
		mongoURI := os.Getenv("MONGO_URI")
		if mongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required")
		}
		cfg.Mongo.URI = mongoURI

		mongoDB := os.Getenv("MONGO_DATABASE")
		if mongoDB == "" {
			return nil, fmt.Errorf("MONGO_DATABASE is required")
		}
		cfg.Mongo.Database = mongoDB
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %s", storeDriver)
	}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	rateLimitStr := os.Getenv("RATE_LIMIT_PER_MINUTE")
	if rateLimitStr == "" {
		rateLimitStr = "100" // default limit
	}
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %s", rateLimitStr)
	}
	cfg.Server.RateLimitPerMinute = rateLimit

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Session tokens are optional, the auth provider lives outside this service
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	// Generative text API configuration
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	cfg.Gemini.APIKey = geminiKey

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash" // default model
	}
	cfg.Gemini.Model = geminiModel

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = "https://generativelanguage.googleapis.com"
	}
	cfg.Gemini.BaseURL = strings.TrimRight(geminiBaseURL, "/")

	geminiTimeoutStr := os.Getenv("GEMINI_TIMEOUT")
	if geminiTimeoutStr == "" {
		geminiTimeoutStr = "60s"
	}
	geminiTimeout, err := time.ParseDuration(geminiTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
	}
	cfg.Gemini.Timeout = geminiTimeout

	// Video search API configuration
	youtubeKey := os.Getenv("YOUTUBE_API_KEY")
	if youtubeKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	cfg.YouTube.APIKey = youtubeKey

	return cfg, nil
}

// loadDatabase reads the MySQL connection settings
func loadDatabase(cfg *Config) error {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	return nil
}

// parseOrigins parses a comma-separated origin list, defaulting to allow all
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	origins := strings.Split(raw, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	// If no valid origins found, default to allow all
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}
