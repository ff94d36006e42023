package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBackendMySQL  = "mysql"
	StoreBackendMemory = "memory"
)

// Config holds application configuration from environment variables
type Config struct {
	// Application
	AppPort string

	// Persistence
	StoreBackend string // "mysql" or "memory"
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	// StoreLatency simulates the persistence round-trip delay of the
	// original demo; only honored by the in-memory backend.
	StoreLatency time.Duration

	// Assistant (Gemini-style text generation endpoint)
	AssistantBaseURL string
	AssistantModel   string
	AssistantAPIKey  string

	// Default demo session user
	DefaultUserID    string
	DefaultUserName  string
	DefaultUserEmail string
	DefaultUserRole  string

	// OpenTelemetry
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPHeaders   string
	OTELExporterOTLPInsecure  bool
	OTELServiceName           string
	OTELServiceVersion        string
	OTELDeploymentEnvironment string
}

// LoadConfig loads configuration from .env file and environment variables with defaults
func LoadConfig() *Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	return &Config{
		// Application
		AppPort: getEnv("APP_PORT", "8080"),

		// Persistence
		StoreBackend: getEnv("STORE_BACKEND", StoreBackendMySQL),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", "root"),
		DBPassword:   getEnv("DB_PASSWORD", "password"),
		DBName:       getEnv("DB_NAME", "nexusmarket"),
		StoreLatency: time.Duration(getEnvInt("STORE_LATENCY_MS", 0)) * time.Millisecond,

		// Assistant
		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", "https://generativelanguage.googleapis.com"),
		AssistantModel:   getEnv("ASSISTANT_MODEL", "gemini-3-flash-preview"),
		AssistantAPIKey:  getEnv("ASSISTANT_API_KEY", ""),

		// Default demo session user
		DefaultUserID:    getEnv("DEFAULT_USER_ID", "u1"),
		DefaultUserName:  getEnv("DEFAULT_USER_NAME", "John Doe"),
		DefaultUserEmail: getEnv("DEFAULT_USER_EMAIL", "john@example.com"),
		DefaultUserRole:  getEnv("DEFAULT_USER_ROLE", "seller"),

		// OpenTelemetry
		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPHeaders:   getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OTELExporterOTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "nexusmarket-storefront"),
		OTELServiceVersion:        getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
		OTELDeploymentEnvironment: getEnv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
	}
}

// GetDSN returns the MySQL DSN string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if value == "true" || value == "1" || value == "yes" {
			return true
		}
		return false
	}
	return defaultValue
}
