package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origins     []string
	Environment string
	Database    DatabaseConfig
	JWT         JWTConfig
	Chat        ChatConfig
	Redis       RedisConfig
	Log         LogConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         string
	Username     string
	Password     string
	Name         string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// JWTConfig holds bearer token signing settings
type JWTConfig struct {
	Secret          string
	Algorithm       string
	ExpirationHours int
}

// ChatConfig holds the remote chat-model settings
type ChatConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// RedisConfig holds the token denylist connection. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string
	Format string
}

// TokenLifetime is the fixed validity window of an issued token.
func (j JWTConfig) TokenLifetime() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// Timeout is the bounded wait for one chat completion.
func (c ChatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:     getEnv("DB_HOST", "localhost"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "smartclinic"),
		DSN:      getEnv("DATABASE_URL", ""),
	}

	defaultPort := "3306"
	if dbConfig.Driver == "postgres" {
		defaultPort = "5432"
	}
	dbConfig.Port = getEnv("DB_PORT", defaultPort)

	var err error
	if dbConfig.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if dbConfig.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}

	if dbConfig.DSN == "" {
		dbConfig.DSN = buildDSN(dbConfig)
	}

	jwtExpHours, err := getEnvInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}

	chatTimeout, err := getEnvInt("CHAT_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	environment := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))

	defaultFormat := "json"
	if environment == "development" {
		defaultFormat = "console"
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8001"),
		Origins:     splitList(getEnv("CORS_ORIGINS", "*")),
		Environment: environment,
		Database:    dbConfig,
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "default_jwt_secret"),
			Algorithm:       strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
			ExpirationHours: jwtExpHours,
		},
		Chat: ChatConfig{
			APIKey:         getEnv("CHAT_API_KEY", getEnv("EMERGENT_LLM_KEY", "")),
			BaseURL:        strings.TrimRight(getEnv("CHAT_BASE_URL", "https://api.openai.com/v1"), "/"),
			Model:          getEnv("CHAT_MODEL", "gpt-4o"),
			TimeoutSeconds: chatTimeout,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", defaultFormat)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q: only HMAC algorithms are allowed", c.JWT.Algorithm)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", c.JWT.ExpirationHours)
	}
	if c.Chat.TimeoutSeconds <= 0 {
		return fmt.Errorf("CHAT_TIMEOUT_SECONDS must be positive, got %d", c.Chat.TimeoutSeconds)
	}
	if len(c.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return nil
}

// buildDSN assembles a driver specific DSN from the discrete DB_* settings.
func buildDSN(db DatabaseConfig) string {
	switch db.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable TimeZone=UTC",
			db.Host, db.Port, db.Username, db.Name)
		if db.Password != "" {
			dsn += " password=" + db.Password
		}
		return dsn
	case "sqlite":
		return db.Name + ".db"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			db.Username, db.Password, db.Host, db.Port, db.Name)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
