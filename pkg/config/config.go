package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string
	StorageBucket   string

	// Service account credentials. JSON wins over the file path when both are set.
	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string

	StoreTimeout    time.Duration
	MarkSeenTimeout time.Duration

	SendMessageRate    float64 // per second
	SendMessageBurst   int
	CreateRequestRate  float64
	CreateRequestBurst int

	AllowedOrigins []string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		FirebaseProject:         getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:             getEnv("ENVIRONMENT", "development"),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StoreTimeout:            getEnvAsDuration("STORE_TIMEOUT", 10*time.Second),
		MarkSeenTimeout:         getEnvAsDuration("MARK_SEEN_TIMEOUT", 3*time.Second),
		SendMessageRate:         getEnvAsFloat("SEND_MESSAGE_RATE", 1),
		SendMessageBurst:        int(getEnvAsInt64("SEND_MESSAGE_BURST", 10)),
		CreateRequestRate:       getEnvAsFloat("CREATE_REQUEST_RATE", 0.2),
		CreateRequestBurst:      int(getEnvAsInt64("CREATE_REQUEST_BURST", 5)),
		AllowedOrigins:          getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("5s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
