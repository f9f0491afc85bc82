package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Azure     AzureConfig
	Assistant AssistantConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// StorageConfig holds local document storage configuration
type StorageConfig struct {
	DatabasePath string
	DocumentKey  string
	// Base64-encoded 32-byte key. Empty disables at-rest encryption.
	EncryptionKey string
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	OpenAI OpenAIConfig
	Speech SpeechConfig
	Blob   BlobConfig
}

// OpenAIConfig holds Azure OpenAI configuration
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// SpeechConfig holds Azure Speech Service configuration.
// Optional: when unset the dictation feature is unavailable.
type SpeechConfig struct {
	SubscriptionKey string
	Region          string
}

// BlobConfig holds Azure Blob Storage configuration.
// Optional: when unset product photos are stored inline in the document.
type BlobConfig struct {
	AccountName string
	AccountKey  string
	Container   string
}

// AssistantConfig holds coaching assistant configuration
type AssistantConfig struct {
	// Language the assistant answers in and the dictation language (BCP-47)
	Language string
	// How long a motivational message is reused before asking for a new one
	MotivationTTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Storage defaults
	v.SetDefault("storage.databasepath", "fittrack.db")
	v.SetDefault("storage.documentkey", "fittrack-user-data")

	// Assistant defaults
	v.SetDefault("assistant.language", "fr-FR")
	v.SetDefault("assistant.motivationttl", 6*time.Hour)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Storage
	v.BindEnv("storage.databasepath", "FITTRACK_DB_PATH")
	v.BindEnv("storage.documentkey", "FITTRACK_DOCUMENT_KEY")
	v.BindEnv("storage.encryptionkey", "FITTRACK_ENCRYPTION_KEY")

	// Azure OpenAI
	v.BindEnv("azure.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("azure.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("azure.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Azure Speech
	v.BindEnv("azure.speech.subscriptionkey", "AZURE_SPEECH_KEY")
	v.BindEnv("azure.speech.region", "AZURE_SPEECH_REGION")

	// Azure Blob Storage
	v.BindEnv("azure.blob.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.blob.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.blob.container", "AZURE_STORAGE_CONTAINER")

	// Assistant
	v.BindEnv("assistant.language", "ASSISTANT_LANGUAGE")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.databasepath is required")
	}

	if c.Storage.DocumentKey == "" {
		return fmt.Errorf("storage.documentkey is required")
	}

	if c.Azure.OpenAI.Endpoint == "" {
		return fmt.Errorf("azure.openai.endpoint is required")
	}

	if c.Azure.OpenAI.APIKey == "" {
		return fmt.Errorf("azure.openai.apikey is required")
	}

	if c.Azure.OpenAI.Deployment == "" {
		return fmt.Errorf("azure.openai.deployment is required")
	}

	// Speech and blob storage are optional, but partial credentials are a
	// configuration mistake worth failing on.
	if (c.Azure.Speech.SubscriptionKey == "") != (c.Azure.Speech.Region == "") {
		return fmt.Errorf("azure speech requires both subscription key and region")
	}

	if c.Azure.Blob.AccountName != "" || c.Azure.Blob.AccountKey != "" || c.Azure.Blob.Container != "" {
		if c.Azure.Blob.AccountName == "" || c.Azure.Blob.AccountKey == "" || c.Azure.Blob.Container == "" {
			return fmt.Errorf("azure blob storage requires account name, account key, and container")
		}
	}

	if _, err := c.EncryptionKey(); err != nil {
		return err
	}

	return nil
}

// EncryptionKey decodes the configured at-rest encryption key.
// Returns nil when encryption is disabled.
func (c *Config) EncryptionKey() ([]byte, error) {
	if c.Storage.EncryptionKey == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(c.Storage.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("storage.encryptionkey is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("storage.encryptionkey must decode to 32 bytes, got %d", len(key))
	}

	return key, nil
}

// SpeechEnabled reports whether the dictation capability is configured
func (c *Config) SpeechEnabled() bool {
	return c.Azure.Speech.SubscriptionKey != "" && c.Azure.Speech.Region != ""
}

// BlobEnabled reports whether blob storage is configured
func (c *Config) BlobEnabled() bool {
	return c.Azure.Blob.AccountName != "" && c.Azure.Blob.AccountKey != "" && c.Azure.Blob.Container != ""
}
