package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBConnStr     string
	MigrationsDir string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	LeaderboardKey string
	LeaderboardTop int

	NatsURL     string
	NatsSubject string

	JudgeBaseURL      string
	JudgePollInterval time.Duration
	JudgeTimeout      time.Duration
	LocalExecTimeout  time.Duration
}

// Load reads .env plus the environment and returns the assembled config. The
// result is passed down explicitly; nothing reads configuration ambiently.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "user"),
		DBPassword:    getEnv("DB_PASSWORD", "password"),
		DBName:        getEnv("DB_NAME", "codetrack_db"),
		DBSslMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		LeaderboardKey: getEnv("LEADERBOARD_KEY", "codetrack:leaderboard"),
		LeaderboardTop: getEnvAsInt("LEADERBOARD_TOP", 25),

		NatsURL:     getEnv("NATS_URL", ""),
		NatsSubject: getEnv("NATS_SUBJECT", "codetrack.submissions"),

		JudgeBaseURL:      getEnv("JUDGE_BASE_URL", ""),
		JudgePollInterval: time.Duration(getEnvAsInt("JUDGE_POLL_INTERVAL_MS", 500)) * time.Millisecond,
		JudgeTimeout:      time.Duration(getEnvAsInt("JUDGE_TIMEOUT_SECONDS", 30)) * time.Second,
		LocalExecTimeout:  time.Duration(getEnvAsInt("LOCAL_EXEC_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
