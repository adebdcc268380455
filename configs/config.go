package configs

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	// conversational oracle; empty key disables the live path entirely
	GeminiAPIKey string
	GeminiModel  string

	// one-time-link claim store; empty addr falls back to in-process
	RedisAddr string

	// order event stream; empty broker list disables publishing
	KafkaBrokers []string
	KafkaTopic   string

	// base of the public ordering links encoded into table QR codes
	PublicBaseURL string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBSource:      getEnv("DB_SOURCE", "orders.db"),
		Port:          getEnv("PORT", "8000"),
		JWTSecret:     getEnv("JWT_SECRET", "changeme"),
		JWTTTL:        24 * time.Hour,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  brokers,
		KafkaTopic:    getEnv("KAFKA_TOPIC", "order_events"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8000"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
