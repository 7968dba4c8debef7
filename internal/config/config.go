package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string

	RedisURL string // empty disables the task-list cache

	JWTSecret string

	AccessTokenMaxAge  int
	RefreshTokenMaxAge int

	// Due-soon sweep settings. Defaults match the mobile client's contract:
	// scan once a minute for tasks due in five minutes.
	SweepInterval  time.Duration
	SweepLookahead time.Duration

	// Timezone the client's due_date/due_time fields are expressed in.
	SweepTimezone string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 86400
	}

	refreshTokenMaxAge, err := strconv.Atoi(os.Getenv("REFRESH_TOKEN_MAX_AGE"))
	if err != nil || refreshTokenMaxAge <= 0 {
		refreshTokenMaxAge = 2592000
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sweepInterval := durationFromEnv("SWEEP_INTERVAL", time.Minute)
	sweepLookahead := durationFromEnv("SWEEP_LOOKAHEAD", 5*time.Minute)

	sweepTimezone := os.Getenv("SWEEP_TIMEZONE")
	if sweepTimezone == "" {
		sweepTimezone = "Local"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ServerPort: serverPort,

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenMaxAge:  accessTokenMaxAge,
		RefreshTokenMaxAge: refreshTokenMaxAge,

		SweepInterval:  sweepInterval,
		SweepLookahead: sweepLookahead,
		SweepTimezone:  sweepTimezone,
	}, nil
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using default %v", key, raw, fallback)
		return fallback
	}
	return d
}
