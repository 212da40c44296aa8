package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port         int              `json:"port"`
	CORSOrigins  []string         `json:"cors_origins"`
	JWTSecret    string           `json:"jwt_secret"`
	JWTTTLHours  int              `json:"jwt_ttl_hours"`
	LogConfig    logger.LogConfig `json:"log_config"`
	DB           DBConfig         `json:"db"`
	AI           AIConfig         `json:"ai"`
	FileStore    FileStoreConfig  `json:"file_store"`
	Jobs         JobsConfig       `json:"jobs"`
	MaxTextChars int              `json:"max_text_chars"`
	MaxPDFSizeMB int              `json:"max_pdf_size_mb"`
}

type DBConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

type AIConfig struct {
	Provider       string      `json:"provider"`
	ChunkSize      int         `json:"chunk_size"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	OpenAI         ChatConfig  `json:"openai"`
	Groq           ChatConfig  `json:"groq"`
	Gemini         ChatConfig  `json:"gemini"`
	Local          LocalConfig `json:"local"`
}

type ChatConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

type LocalConfig struct {
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
}

type FileStoreConfig struct {
	Type      string   `json:"type"`
	Dir       string   `json:"dir"`
	PublicURL string   `json:"public_url"`
	S3        S3Config `json:"s3"`
}

type S3Config struct {
	Endpoint  string `json:"endpoint"`
	SecretID  string `json:"secret_id"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	PublicURL string `json:"public_url"`
	UseSSL    bool   `json:"use_ssl"`
}

type JobsConfig struct {
	CleanupSpec      string `json:"cleanup_spec"`
	MaxAgeSeconds    int64  `json:"max_age_seconds"`
	WorkerTimeoutSec int    `json:"worker_timeout_sec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "sqlite"
	}
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("db.driver must be sqlite or postgres")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	if cfg.AI.ChunkSize == 0 {
		cfg.AI.ChunkSize = 3000
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 120
	}
	if cfg.MaxTextChars == 0 {
		cfg.MaxTextChars = 50000
	}
	if cfg.MaxPDFSizeMB == 0 {
		cfg.MaxPDFSizeMB = 10
	}
	if cfg.Jobs.CleanupSpec == "" {
		cfg.Jobs.CleanupSpec = "0 * * * *"
	}
	if cfg.Jobs.MaxAgeSeconds == 0 {
		cfg.Jobs.MaxAgeSeconds = 3600
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	switch cfg.FileStore.Type {
	case "local":
		if cfg.FileStore.Dir == "" {
			return nil, fmt.Errorf("file_store.dir is required for local store")
		}
	case "s3":
		if cfg.FileStore.S3.Endpoint == "" || cfg.FileStore.S3.Bucket == "" || cfg.FileStore.S3.SecretID == "" || cfg.FileStore.S3.SecretKey == "" {
			return nil, fmt.Errorf("file_store.s3 endpoint/bucket/secret_id/secret_key are required for s3 store")
		}
		if cfg.FileStore.S3.Region == "" {
			cfg.FileStore.S3.Region = "us-east-1"
		}
	default:
		return nil, fmt.Errorf("file_store.type must be local or s3")
	}
	return &cfg, nil
}
