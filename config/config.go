package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	TableBackend   string
	CartStorage    string
	MongoURI       string
	DBName         string
	PostgresDSN    string
	JWTSecret      string
	SendGridAPIKey string
	MailFrom       string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// LoadEnv reads a .env file when present. A missing file is not an error:
// in deployed environments everything comes from the process environment.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func Load() Config {
	return Config{
		Port:           GetEnv("PORT", "8080"),
		Env:            GetEnv("APP_ENV", "production"),
		TableBackend:   strings.ToLower(GetEnv("TABLE_BACKEND", "memory")),
		CartStorage:    strings.ToLower(GetEnv("CART_STORAGE", "memory")),
		MongoURI:       GetEnv("MONGO_URI", ""),
		DBName:         GetEnv("DB_NAME", "balloonshop"),
		PostgresDSN:    GetEnv("POSTGRES_DSN", ""),
		JWTSecret:      GetEnv("JWT_SECRET", ""),
		SendGridAPIKey: GetEnv("SENDGRID_API_KEY", ""),
		MailFrom:       GetEnv("MAIL_FROM", ""),
		CORSOrigins:    splitList(GetEnv("CORS_ORIGINS", "*")),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

func (c Config) Development() bool {
	return c.Env == "development"
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// bare integers are seconds
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
