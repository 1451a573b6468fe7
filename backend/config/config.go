package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	FrontendURL string

	// OpenAI-compatible suggestion provider
	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	UseAIAPI  bool

	EnableScheduler bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "studyhub"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		AIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		AIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		AIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		UseAIAPI:        getEnv("USE_OPENAI_API", "false") == "true",
		EnableScheduler: getEnv("ENABLE_SCHEDULER", "true") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
