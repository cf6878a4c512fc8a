package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	History  HistoryConfig
	Embedder EmbedderConfig
	Qdrant   QdrantConfig
	Storage  StorageConfig
	Scoring  ScoringConfig
	S3       S3Config
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Env  string `validate:"required"`
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// HistoryConfig toggles persistence of match runs. Scoring never depends on it.
type HistoryConfig struct {
	Enabled bool
}

type EmbedderConfig struct {
	Backend        string `validate:"required,oneof=gemini vertex"`
	APIKey         string `validate:"required_if=Backend gemini"`
	Model          string `validate:"required"`
	VertexProject  string `validate:"required_if=Backend vertex"`
	VertexLocation string `validate:"required_if=Backend vertex"`
}

type QdrantConfig struct {
	Enabled    bool
	URL        string `validate:"required_if=Enabled true"`
	APIKey     string
	Collection string `validate:"required_if=Enabled true"`
	VectorSize uint64 `validate:"gt=0"`
}

type StorageConfig struct {
	UploadPath     string `validate:"required"`
	MaxFileSize    int64  `validate:"gt=0"`
	MaxRequestSize int64  `validate:"gtefield=MaxFileSize"`
}

type ScoringConfig struct {
	FilenameWeight float64 `validate:"gte=0,lte=1"`
	KeywordTopN    int     `validate:"gt=0"`
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_matcher"),
		},
		History: HistoryConfig{
			Enabled: getEnvAsBool("HISTORY_ENABLED", false),
		},
		Embedder: EmbedderConfig{
			Backend:        getEnv("EMBEDDER_BACKEND", "gemini"),
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("EMBED_MODEL", "text-embedding-004"),
			VertexProject:  getEnv("VERTEX_PROJECT", ""),
			VertexLocation: getEnv("VERTEX_LOCATION", "us-central1"),
		},
		Qdrant: QdrantConfig{
			Enabled:    getEnvAsBool("QDRANT_ENABLED", false),
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_embeddings"),
			VectorSize: uint64(getEnvAsInt64("QDRANT_VECTOR_SIZE", 768)),
		},
		Storage: StorageConfig{
			UploadPath:     getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxRequestSize: getEnvAsInt64("MAX_REQUEST_SIZE", 104857600),
		},
		Scoring: ScoringConfig{
			FilenameWeight: getEnvAsFloat("FILENAME_WEIGHT", 0.2),
			KeywordTopN:    getEnvAsInt("KEYWORD_TOP_N", 10),
		},
		S3: S3Config{
			Region:    getEnv("S3_REGION", "auto"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
	}
}

// Validate checks the loaded configuration. Callers should fail fast on error,
// in particular when no usable embedding backend is configured.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
