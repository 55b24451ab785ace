// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/FatihSuicmez/TUIK-MCP/extraction"
	"github.com/FatihSuicmez/TUIK-MCP/ingestion"
	"github.com/FatihSuicmez/TUIK-MCP/table"
)

// EnvPrefix prefixes every environment override, e.g. TUIK_INGESTION_WORKERS.
const EnvPrefix = "TUIK"

// APIKeyEnv is consulted for the extraction API key when neither the file
// nor TUIK_AI_API_KEY provides one.
const APIKeyEnv = "GOOGLE_API_KEY"

// Transports accepted by the MCP server.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// AIConfig selects the extraction and embedding services.
type AIConfig struct {
	Backend        string `yaml:"backend" envconfig:"BACKEND"`
	APIKey         string `yaml:"api_key" envconfig:"API_KEY"`
	ExtractorHost  string `yaml:"extractor_host" envconfig:"EXTRACTOR_HOST"`
	ExtractorModel string `yaml:"extractor_model" envconfig:"EXTRACTOR_MODEL"`
	EmbeddingHost  string `yaml:"embedding_host" envconfig:"EMBEDDING_HOST"`
	EmbeddingModel string `yaml:"embedding_model" envconfig:"EMBEDDING_MODEL"`
}

// IngestionConfig tunes extraction and embedding.
type IngestionConfig struct {
	Workers            int           `yaml:"workers" envconfig:"WORKERS"`
	MaxAttempts        int           `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS"`
	RetryDelay         time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY"`
	MaxLines           int           `yaml:"max_lines" envconfig:"MAX_LINES"`
	EmbeddingBatchSize int           `yaml:"embedding_batch_size" envconfig:"EMBEDDING_BATCH_SIZE"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" envconfig:"TRANSPORT"`
	Host      string `yaml:"host" envconfig:"HOST"`
	Port      int    `yaml:"port" envconfig:"PORT"`
}

// Config is the application configuration.
type Config struct {
	// DataDir holds one folder per category with the source spreadsheets.
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`

	// ManifestPath is the data.json listing every source table.
	ManifestPath string `yaml:"manifest" envconfig:"MANIFEST"`

	// WorkDir holds the completed log, failure log and fragment checkpoint.
	WorkDir string `yaml:"work_dir" envconfig:"WORK_DIR"`

	// IndexPath is the persisted vector index.
	IndexPath string `yaml:"index_path" envconfig:"INDEX_PATH"`

	// CorpusDir is the badger directory holding the committed corpus.
	CorpusDir string `yaml:"corpus_dir" envconfig:"CORPUS_DIR"`

	LogDir   string `yaml:"log_dir" envconfig:"LOG_DIR"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	AI        AIConfig        `yaml:"ai" envconfig:"AI"`
	Ingestion IngestionConfig `yaml:"ingestion" envconfig:"INGESTION"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	defaults := ai.DefaultConfig()
	return &Config{
		DataDir:      filepath.Join("DATA", "data"),
		ManifestPath: filepath.Join("DATA", "data.json"),
		WorkDir:      "work",
		IndexPath:    filepath.Join("work", "tuik.index"),
		CorpusDir:    filepath.Join("work", "corpus"),
		LogDir:       "",
		LogLevel:     "info",
		AI: AIConfig{
			Backend:        defaults.ExtractorBackend,
			ExtractorHost:  defaults.ExtractorHost,
			ExtractorModel: defaults.ExtractorModel,
			EmbeddingHost:  defaults.EmbeddingHost,
			EmbeddingModel: defaults.EmbeddingModel,
		},
		Ingestion: IngestionConfig{
			Workers:            ingestion.DefaultPoolSize,
			MaxAttempts:        extraction.DefaultMaxAttempts,
			RetryDelay:         extraction.DefaultBaseDelay,
			MaxLines:           table.DefaultMaxLines,
			EmbeddingBatchSize: 64,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "0.0.0.0",
			Port:      8070,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, a
// .env file in the working directory and TUIK_* environment variables, in
// increasing order of precedence. A missing file yields the defaults; an
// empty path skips the file.
func Load(path string) (*Config, error) {
	// .env is optional; variables may come from the shell.
	_ = godotenv.Load(".env")

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv(APIKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating directories as needed.
// The API key is not written.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out := *c
	out.AI.APIKey = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the values that have no usable fallback.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	case c.ManifestPath == "":
		return fmt.Errorf("%w: manifest is required", ErrInvalidConfig)
	case c.WorkDir == "":
		return fmt.Errorf("%w: work_dir is required", ErrInvalidConfig)
	case c.IndexPath == "":
		return fmt.Errorf("%w: index_path is required", ErrInvalidConfig)
	case c.CorpusDir == "":
		return fmt.Errorf("%w: corpus_dir is required", ErrInvalidConfig)
	case c.Ingestion.Workers < 1:
		return fmt.Errorf("%w: ingestion.workers must be at least 1, got %d", ErrInvalidConfig, c.Ingestion.Workers)
	case c.Ingestion.MaxAttempts < 1:
		return fmt.Errorf("%w: ingestion.max_attempts must be at least 1, got %d", ErrInvalidConfig, c.Ingestion.MaxAttempts)
	case c.Ingestion.RetryDelay < 0:
		return fmt.Errorf("%w: ingestion.retry_delay must not be negative", ErrInvalidConfig)
	case c.Ingestion.EmbeddingBatchSize < 1:
		return fmt.Errorf("%w: ingestion.embedding_batch_size must be at least 1", ErrInvalidConfig)
	case c.Server.Port < 1 || c.Server.Port > 65535:
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.Transport != TransportStdio && c.Server.Transport != TransportHTTP {
		return fmt.Errorf("%w: server.transport must be %q or %q, got %q",
			ErrInvalidConfig, TransportStdio, TransportHTTP, c.Server.Transport)
	}
	return nil
}

// AIConfig converts the AI section into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithExtractorBackend(c.AI.Backend),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithExtractorHost(c.AI.ExtractorHost),
		ai.WithExtractorModel(c.AI.ExtractorModel),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
	)
	cfg.Normalize()
	return cfg
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
