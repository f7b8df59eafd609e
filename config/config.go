package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"

	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type Config struct {
	Env     string
	Service ServiceConfig
	Poll    PollConfig
	Status  StatusConfig
	Store   StoreConfig
	Server  ServerConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Log     LogConfig
	Kafka   KafkaConfig
}

// ServiceConfig describes how to reach the remote ticket service.
type ServiceConfig struct {
	Transport      string
	BaseURL        string
	GRPCAddr       string
	RequestTimeout time.Duration
}

type PollConfig struct {
	Interval time.Duration
}

type StatusConfig struct {
	QueueName               string
	TicketID                string
	AppTitle                string
	NotificationIcon        string
	ResetBusyOnLeaveFailure bool
	NotificationBell        bool
}

type StoreConfig struct {
	Backend   string
	Namespace string
}

type ServerConfig struct {
	HTTPPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

type KafkaConfig struct {
	Brokers              []string
	ProducerRetryMax     int
	ProducerRequiredAcks int
	Enabled              bool
	ConsumerGroupID      string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type LogConfig struct {
	Level    string
	Mode     string
	Encoding string
	Output   string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("ENV", "development"),
		Service: ServiceConfig{
			Transport:      getEnv("TICKET_SERVICE_TRANSPORT", TransportHTTP),
			BaseURL:        getEnv("TICKET_SERVICE_BASE_URL", "http://localhost:8080"),
			GRPCAddr:       getEnv("TICKET_SERVICE_GRPC_ADDR", "localhost:50056"),
			RequestTimeout: getEnvAsDuration("TICKET_SERVICE_TIMEOUT", 5*time.Second),
		},
		Poll: PollConfig{
			Interval: getEnvAsDuration("POLL_INTERVAL", 10*time.Second),
		},
		Status: StatusConfig{
			QueueName:               getEnv("STATUS_QUEUE_NAME", ""),
			TicketID:                getEnv("STATUS_TICKET_ID", ""),
			AppTitle:                getEnv("STATUS_APP_TITLE", "SimplQ"),
			NotificationIcon:        getEnv("STATUS_NOTIFICATION_ICON", "/LogoLight.png"),
			ResetBusyOnLeaveFailure: getEnvAsBool("STATUS_RESET_BUSY_ON_LEAVE_FAILURE", false),
			NotificationBell:        getEnvAsBool("STATUS_NOTIFICATION_BELL", true),
		},
		Store: StoreConfig{
			Backend:   getEnv("STORE_BACKEND", StoreBackendMemory),
			Namespace: getEnv("STORE_NAMESPACE", "default"),
		},
		Server: ServerConfig{
			HTTPPort:     getEnvAsInt("SERVER_HTTP_PORT", 8090),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 5*time.Minute),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Mode:     getEnv("LOG_MODE", "development"),
			Encoding: getEnv("LOG_ENCODING", "console"),
			Output:   getEnv("LOG_OUTPUT", ""),
		},
		Kafka: KafkaConfig{
			Brokers:              getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ProducerRetryMax:     getEnvAsInt("KAFKA_PRODUCER_RETRY_MAX", 3),
			ProducerRequiredAcks: getEnvAsInt("KAFKA_PRODUCER_REQUIRED_ACKS", 1),
			Enabled:              getEnvAsBool("KAFKA_ENABLED", false),
			ConsumerGroupID:      getEnv("KAFKA_CONSUMER_GROUP_ID", "queue-status-watcher"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Service.Transport {
	case TransportHTTP:
		u, err := url.Parse(c.Service.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid ticket service base url: %q", c.Service.BaseURL)
		}
	case TransportGRPC:
		if c.Service.GRPCAddr == "" {
			return fmt.Errorf("ticket service grpc address is required")
		}
	default:
		return fmt.Errorf("unknown ticket service transport: %q", c.Service.Transport)
	}

	if c.Poll.Interval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", c.Poll.Interval)
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.HTTPPort)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}

	if c.JWT.Secret == "" && c.Env == "production" {
		return fmt.Errorf("JWT secret must be set in production")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	// Split by comma
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
