package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "PODSCRIBE_CONFIG"
	dataDirEnv     = "PODSCRIBE_DATA_DIR"
	apiKeyEnv      = "ASSEMBLYAI_API_KEY"
	mongoURIEnv    = "MONGO_URI"
	postgresDSNEnv = "POSTGRES_DSN"
	supabaseURLEnv = "SUPABASE_URL"
	supabaseKeyEnv = "SUPABASE_KEY"
)

// Config holds the settings required across the application.
type Config struct {
	DataDir  string         `yaml:"dataDir"`
	Tools    ToolsConfig    `yaml:"tools"`
	Engine   EngineConfig   `yaml:"engine"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
	Supabase SupabaseConfig `yaml:"supabase"`
}

// ToolsConfig locates the external binaries. Empty values resolve via PATH.
type ToolsConfig struct {
	YTDLPBin  string `yaml:"ytdlpBin"`
	FFmpegBin string `yaml:"ffmpegBin"`
}

// EngineConfig describes the transcription engine credentials.
type EngineConfig struct {
	APIKey string `yaml:"apiKey"`
}

// MongoConfig describes the transcript index connection. An empty URI
// disables indexing.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// PostgresConfig describes the replication target.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SupabaseConfig describes an alternative hosted replication target.
type SupabaseConfig struct {
	URL      string `yaml:"url"`
	Key      string `yaml:"key"`
	Password string `yaml:"password"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataDirEnv); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Engine.APIKey = v
	}
	if v := os.Getenv(mongoURIEnv); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv(postgresDSNEnv); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv(supabaseURLEnv); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv(supabaseKeyEnv); v != "" {
		c.Supabase.Key = v
	}
}

func defaultConfig() Config {
	return Config{
		DataDir: "uploads",
		Mongo: MongoConfig{
			Database:   "podscribe",
			Collection: "transcripts",
		},
	}
}
