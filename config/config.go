package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the question-answering service
type Config struct {
	Transcripts TranscriptsConfig `mapstructure:"transcripts"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Transcribe  TranscribeConfig  `mapstructure:"transcribe"`
	Server      ServerConfig      `mapstructure:"server"`
}

// TranscriptsConfig contains transcript corpus and segmentation settings
type TranscriptsConfig struct {
	// Location is a local path or an s3://bucket/key URI.
	Location string `mapstructure:"location"`
	// ChunkWords is the target segment size in words.
	ChunkWords int `mapstructure:"chunk_words"`
	// WordsPerSecond is the assumed speech rate used to estimate segment
	// offsets. A tunable estimate, not an alignment.
	WordsPerSecond float64 `mapstructure:"words_per_second"`
}

func (t TranscriptsConfig) Validate() error {
	if t.ChunkWords < 1 {
		return fmt.Errorf("transcripts.chunk_words must be >= 1")
	}
	if t.WordsPerSecond <= 0 {
		return fmt.Errorf("transcripts.words_per_second must be > 0")
	}
	return nil
}

// RetrievalConfig contains retrieval depth settings
type RetrievalConfig struct {
	MaxContextSegments int `mapstructure:"max_context_segments"`
	SearchResults      int `mapstructure:"search_results"`
}

func (r RetrievalConfig) Validate() error {
	if r.MaxContextSegments < 1 {
		return fmt.Errorf("retrieval.max_context_segments must be >= 1")
	}
	if r.SearchResults < 1 {
		return fmt.Errorf("retrieval.search_results must be >= 1")
	}
	return nil
}

// LLMConfig contains the answer-generation provider settings
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0")
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be > 0")
	}
	return nil
}

// TranscribeConfig contains speech-to-text settings for transcript generation
type TranscribeConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("server.address is required")
	}
	return nil
}

// LoadConfig loads config from file, environment and defaults
func LoadConfig(path string) *Config {
	viper.SetConfigName("podbotnik") // name of config file (without extension)
	viper.SetConfigType("yaml")

	viper.SetDefault("transcripts.location", "examples/transcripts.json")
	viper.SetDefault("transcripts.chunk_words", 75)
	viper.SetDefault("transcripts.words_per_second", 2.5)
	viper.SetDefault("retrieval.max_context_segments", 3)
	viper.SetDefault("retrieval.search_results", 5)
	viper.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("llm.model", "mixtral-8x7b-32768")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.max_tokens", 400)
	viper.SetDefault("llm.timeout", 30*time.Second)
	viper.SetDefault("transcribe.base_url", "https://api.openai.com/v1")
	viper.SetDefault("transcribe.model", "whisper-1")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.cors_origins", []string{"*"})

	if path == "" {
		viper.AddConfigPath("./config") // path to look for the config file in
		viper.AddConfigPath(".")        // optionally look for config in the working directory
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)                      // bin/
		viper.AddConfigPath(filepath.Join(exeDir, "..")) // repo root
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("PODBOTNIK")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (PODBOTNIK_*)

	if err := viper.ReadInConfig(); err != nil {
		// Running on pure defaults is fine, but an explicitly named or
		// unreadable file is fatal.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	// unmarshal config
	var config Config

	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// Provider keys fall back to the conventional environment variables.
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if config.Transcribe.APIKey == "" {
		config.Transcribe.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := config.Transcripts.Validate(); err != nil {
		panic(err)
	}
	if err := config.Retrieval.Validate(); err != nil {
		panic(err)
	}
	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Server.Validate(); err != nil {
		panic(err)
	}
	return &config
}
