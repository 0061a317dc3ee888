package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type RetrieverConfig struct {
	CSVPath string `yaml:"csv_path"`
	TopK    int    `yaml:"top_k"`
	// Pointer so an explicit 0 (keep every non-negative match) is not
	// mistaken for an absent key and overwritten by the default.
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`
	BatchSize           int      `yaml:"batch_size"`
}

type DocumentsConfig struct {
	ChunkSize     int `yaml:"chunk_size"`
	ChunkOverlap  int `yaml:"chunk_overlap"`
	ChunksPerPage int `yaml:"chunks_per_page"`
}

type SearchConfig struct {
	MaxResults int     `yaml:"max_results"`
	RateLimit  float64 `yaml:"rate_limit"`
}

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Documents DocumentsConfig `yaml:"documents"`
	Search    SearchConfig    `yaml:"search"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/medqa/config.yaml"),
			"/etc/medqa/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "mistral"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 500
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Embedding.Model == "" {
		config.Embedding.Model = "nomic-embed-text:latest"
	}
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = config.LLM.BaseURL
	}

	if config.Retriever.CSVPath == "" {
		config.Retriever.CSVPath = "data/mtsamples_surgery.csv"
	}
	if config.Retriever.TopK == 0 {
		config.Retriever.TopK = 3
	}
	if config.Retriever.SimilarityThreshold == nil {
		threshold := 0.2
		config.Retriever.SimilarityThreshold = &threshold
	}
	if config.Retriever.BatchSize == 0 {
		config.Retriever.BatchSize = 8
	}

	if config.Documents.ChunkSize == 0 {
		config.Documents.ChunkSize = 1500
	}
	if config.Documents.ChunkOverlap == 0 {
		config.Documents.ChunkOverlap = 150
	}
	if config.Documents.ChunksPerPage == 0 {
		config.Documents.ChunksPerPage = 3
	}

	if config.Search.MaxResults == 0 {
		config.Search.MaxResults = 3
	}
	if config.Search.RateLimit == 0 {
		config.Search.RateLimit = 1.0
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
		config.Embedding.BaseURL = baseURL
	}
	if csvPath := os.Getenv("MEDQA_CSV_PATH"); csvPath != "" {
		config.Retriever.CSVPath = csvPath
	}
}
