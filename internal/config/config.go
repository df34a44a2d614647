package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Store      StoreConfig      `mapstructure:"store" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" validate:"required"`
	Reminder   ReminderConfig   `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects the persistence backend. URL is a file path or DSN
// for sqlite and a connection URL for postgres.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	URL    string `mapstructure:"url" validate:"required_unless=Driver memory"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// GenerationConfig holds the default sizes of generated study material.
type GenerationConfig struct {
	SummaryBullets    int    `mapstructure:"summary_bullets" validate:"required,gt=0,lte=50"`
	KeyPoints         int    `mapstructure:"key_points" validate:"required,gt=0,lte=50"`
	Flashcards        int    `mapstructure:"flashcards" validate:"required,gt=0,lte=100"`
	QuizQuestions     int    `mapstructure:"quiz_questions" validate:"required,gt=0,lte=100"`
	DefaultDifficulty string `mapstructure:"default_difficulty" validate:"required,oneof=easy medium hard"`
}

// RateLimitConfig bounds the request rate of one session.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"required,gt=0"`
	Burst int     `mapstructure:"burst" validate:"required,gt=0"`
}

// ReminderConfig controls the periodic due-review sweep.
type ReminderConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes" validate:"required_if=Enabled true,gte=0"`
}
