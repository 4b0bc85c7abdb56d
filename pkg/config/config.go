package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Timetable TimetableConfig
	Generator GeneratorConfig
	Workload  WorkloadConfig
	Cache     CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TimetableConfig carries schedule assembly and calendar settings.
type TimetableConfig struct {
	AcademicYearStartMonth int
	ScheduleCacheTTL       time.Duration
}

// GeneratorConfig holds defaults for the auto-distribution pass.
type GeneratorConfig struct {
	MaxSameSubjectPerDay int
	FreePeriodsPerDay    int
	CoreSubjectKeywords  []string
}

// WorkloadConfig defines classification thresholds for teacher load analysis.
type WorkloadConfig struct {
	LowBelow        int
	NormalUpTo      int
	HighUpTo        int
	SummaryCacheTTL time.Duration
}

// CacheConfig toggles the Redis-backed cache layer.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Timetable = TimetableConfig{
		AcademicYearStartMonth: v.GetInt("ACADEMIC_YEAR_START_MONTH"),
		ScheduleCacheTTL:       parseDuration(v.GetString("SCHEDULE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Generator = GeneratorConfig{
		MaxSameSubjectPerDay: v.GetInt("GENERATOR_MAX_SAME_SUBJECT_PER_DAY"),
		FreePeriodsPerDay:    v.GetInt("GENERATOR_FREE_PERIODS_PER_DAY"),
		CoreSubjectKeywords:  splitAndTrim(v.GetString("GENERATOR_CORE_SUBJECT_KEYWORDS")),
	}

	cfg.Workload = WorkloadConfig{
		LowBelow:        v.GetInt("WORKLOAD_LOW_BELOW"),
		NormalUpTo:      v.GetInt("WORKLOAD_NORMAL_UP_TO"),
		HighUpTo:        v.GetInt("WORKLOAD_HIGH_UP_TO"),
		SummaryCacheTTL: parseDuration(v.GetString("WORKLOAD_SUMMARY_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_CACHE"),
		DefaultTTL: parseDuration(v.GetString("CACHE_DEFAULT_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ACADEMIC_YEAR_START_MONTH", 9)
	v.SetDefault("SCHEDULE_CACHE_TTL", "5m")

	v.SetDefault("GENERATOR_MAX_SAME_SUBJECT_PER_DAY", 2)
	v.SetDefault("GENERATOR_FREE_PERIODS_PER_DAY", 1)
	v.SetDefault("GENERATOR_CORE_SUBJECT_KEYWORDS", "english,mathematics,math,basic science,science")

	v.SetDefault("WORKLOAD_LOW_BELOW", 10)
	v.SetDefault("WORKLOAD_NORMAL_UP_TO", 25)
	v.SetDefault("WORKLOAD_HIGH_UP_TO", 30)
	v.SetDefault("WORKLOAD_SUMMARY_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_DEFAULT_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
