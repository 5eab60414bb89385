package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Database configuration
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// Server configuration
type ServerConfig struct {
	Port int `json:"port"`
}

// AI provider configuration. Lambda URLs switch the matching provider to
// the remote dispatch path; API keys enable the in-process clients.
type AIConfig struct {
	GeminiAPIKey     string `json:"gemini_api_key"`
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	GeminiLambdaURL  string `json:"gemini_lambda_url"`
	BedrockLambdaURL string `json:"bedrock_lambda_url"`
}

// Full configuration
type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	AI       AIConfig       `json:"ai"`
}

// LoadConfig reads the configuration file and applies environment
// overrides on top of it
func LoadConfig(filePath string) (*Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening configuration file: %v", err)
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decoding configuration file: %v", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns the fallback configuration used when no config
// file is present, with environment overrides applied
func DefaultConfig() *Config {
	config := &Config{
		Database: DatabaseConfig{
			Host:   "localhost",
			Port:   3306,
			User:   "root",
			DBName: "ainote",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
	config.applyEnv()
	return config
}

// applyEnv overlays environment variables on the loaded values. The
// original deployment was configured entirely through the environment.
func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setInt(&c.Database.Port, "DB_PORT")
	setInt(&c.Server.Port, "PORT")
	setString(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.AI.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.AI.GeminiLambdaURL, "GEMINI_LAMBDA_URL")
	setString(&c.AI.BedrockLambdaURL, "BEDROCK_LAMBDA_URL")
}

func setString(target *string, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		*target = v
	}
}

func setInt(target *int, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// GetDSN builds the MySQL connection string. clientFoundRows makes
// RowsAffected count matched rows, so rewriting an identical annotation is
// not mistaken for a missing note.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
