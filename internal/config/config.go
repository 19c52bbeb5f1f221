package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxBodyBytes mirrors the 10 MiB request ceiling of the registration form.
	DefaultMaxBodyBytes = 10 << 20
	// DefaultMaxUploadBytes is the largest accepted ID photo.
	DefaultMaxUploadBytes = 10 << 20
)

// JWTConfig defines issuer/secret pair for admin token verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Enabled reports whether a signing secret has been configured.
func (c JWTConfig) Enabled() bool {
	return len(c.Secret) > 0
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	MongoURI             string
	MongoDatabase        string
	SubmissionCollection string
	Timeout              time.Duration
	ServerLog            *log.Logger
	AdminToken           string
	AdminJWT             JWTConfig
	MaxBodyBytes         int64
	MaxUploadBytes       int64
	RateLimitWindow      time.Duration
	RateLimitMax         int
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	DataDir              string
	UploadDir            string
	UploadURLPrefix      string
	PublicDir            string
	AllowedOrigins       []string
}

// Load reads the optional .env file and the process environment and returns a fully populated Config.
// Environment variables always win over values from the file.
func Load() Config {
	logger := log.New(os.Stderr, "[teacher-registration-api] ", log.LstdFlags|log.Lshortfile)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	envFile := strings.TrimSpace(v.GetString("ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Printf("failed to read %s: %v", envFile, err)
		}
	}

	addr := strings.TrimSpace(v.GetString("HTTP_ADDR"))
	if addr == "" {
		addr = ":" + strings.TrimSpace(v.GetString("PORT"))
	}

	timeout := v.GetDuration("MONGO_CONNECT_TIMEOUT")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	adminToken := strings.TrimSpace(v.GetString("ADMIN_TOKEN"))
	if adminToken == "" {
		logger.Printf("ADMIN_TOKEN is not configured; admin endpoints will reject every token")
	}

	window := v.GetDuration("RATE_LIMIT_WINDOW")
	if window <= 0 {
		window = 15 * time.Minute
	}

	cfg := Config{
		Addr:                 addr,
		MongoURI:             envOrDefault(v, "MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:        envOrDefault(v, "MONGO_DB", "teacher-registration"),
		SubmissionCollection: envOrDefault(v, "SUBMISSION_COLLECTION", "forms"),
		Timeout:              timeout,
		ServerLog:            logger,
		AdminToken:           adminToken,
		AdminJWT: JWTConfig{
			Issuer: envOrDefault(v, "ADMIN_JWT_ISSUER", "teacher-registration-admin"),
			Secret: []byte(strings.TrimSpace(v.GetString("ADMIN_JWT_SECRET"))),
		},
		MaxBodyBytes:    positiveInt64(v, "MAX_BODY_BYTES", DefaultMaxBodyBytes),
		MaxUploadBytes:  positiveInt64(v, "MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		RateLimitWindow: window,
		RateLimitMax:    int(positiveInt64(v, "RATE_LIMIT_MAX", 100)),
		RedisAddr:       strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		DataDir:         envOrDefault(v, "DATA_DIR", "data"),
		UploadDir:       envOrDefault(v, "UPLOAD_DIR", "storage/uploads"),
		UploadURLPrefix: normalisePrefix(envOrDefault(v, "UPLOAD_URL_PREFIX", "/uploads")),
		PublicDir:       strings.TrimSpace(v.GetString("PUBLIC_DIR")),
		AllowedOrigins:  parseList(v.GetString("API_ALLOWED_ORIGINS"), []string{"*"}),
	}

	cfg.ServerLog.Printf("loaded config: addr=%q db=%q collection=%q dataDir=%q uploadDir=%q redis=%t adminJWT=%t",
		cfg.Addr, cfg.MongoDatabase, cfg.SubmissionCollection, cfg.DataDir, cfg.UploadDir, cfg.RedisAddr != "", cfg.AdminJWT.Enabled())

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3003")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
}

func envOrDefault(v *viper.Viper, key, fallback string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	return fallback
}

func positiveInt64(v *viper.Viper, key string, fallback int64) int64 {
	if !v.IsSet(key) {
		return fallback
	}
	value := v.GetInt64(key)
	if value <= 0 {
		return fallback
	}
	return value
}

func normalisePrefix(prefix string) string {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		return "/uploads"
	}
	return prefix
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
