package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	WorkerID    string
	Host        string
	Port        int
	LogLevel    string
	LogFile     string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Relay core
	MaxQueueSize int
	FrameTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration

	// Inference service (hand landmarks + gesture classifier)
	InferenceGRPCURL       string
	InferenceTimeout       time.Duration
	InferenceHealthTimeout time.Duration
	MaxHands               int
	MinDetectionConfidence float64

	// Stream output
	OutputQuality int

	// NATS (prediction events)
	NatsEnabled        bool
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int
	PredictionsSubject string

	// WebSocket transport
	WSPushInterval time.Duration

	// Swagger Configuration
	SwaggerHost string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WorkerID:    getEnv("WORKER_ID", "relay-1"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnvInt("PORT", 8000),
		LogLevel:    getEnv("LOG_LEVEL", "warning"),
		LogFile:     getEnv("LOG_FILE", ""),

		// Logdy
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Relay core
		MaxQueueSize: getEnvInt("MAX_QUEUE_SIZE", 1),
		FrameTimeout: getEnvSeconds("FRAME_TIMEOUT", 1*time.Second),
		MaxRetries:   getEnvInt("MAX_RETRIES", 5),
		RetryDelay:   getEnvSeconds("RETRY_DELAY", 500*time.Millisecond),

		// Inference service
		InferenceGRPCURL:       getEnv("INFERENCE_GRPC_URL", "localhost:50051"),
		InferenceTimeout:       getEnvSeconds("INFERENCE_TIMEOUT", 2*time.Second),
		InferenceHealthTimeout: getEnvSeconds("INFERENCE_HEALTH_TIMEOUT", 3*time.Second),
		MaxHands:               getEnvInt("MAX_HANDS", 1),
		MinDetectionConfidence: getEnvFloat("MIN_DETECTION_CONFIDENCE", 0.5),

		// Stream output
		OutputQuality: getEnvInt("OUTPUT_QUALITY", 80),

		// NATS
		NatsEnabled:        getEnvBool("NATS_ENABLED", false),
		NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited
		PredictionsSubject: getEnv("PREDICTIONS_SUBJECT", "gestures.predictions"),

		// WebSocket
		WSPushInterval: getEnvDuration("WS_PUSH_INTERVAL", 100*time.Millisecond),

		// Swagger
		SwaggerHost: getEnv("SWAGGER_HOST", "localhost:8000"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate rejects values the relay core cannot honour.
func (c *Config) Validate() error {
	if c.MaxQueueSize != 1 {
		return fmt.Errorf("MAX_QUEUE_SIZE must be 1, got %d", c.MaxQueueSize)
	}
	if c.FrameTimeout <= 0 {
		return fmt.Errorf("FRAME_TIMEOUT must be positive, got %s", c.FrameTimeout)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("RETRY_DELAY must not be negative, got %s", c.RetryDelay)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.OutputQuality < 1 || c.OutputQuality > 100 {
		return fmt.Errorf("OUTPUT_QUALITY must be within 1-100, got %d", c.OutputQuality)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSeconds accepts plain seconds ("0.5") as well as Go durations ("500ms").
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
