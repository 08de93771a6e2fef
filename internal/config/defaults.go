// Package config provides configuration loading, defaults, and validation for
// the PharmaLens platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "pharmalens"
	DefaultDBMaxConns = 25

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "pharmalens:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "analysis.completed"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "pharmalens-artifacts"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultGenerativeBaseURL = "https://api.openai.com/v1"
	DefaultGenerativeModel   = "gpt-4o-mini"

	DefaultStructureBaseURL  = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultVocabularyBaseURL = "https://rxnav.nlm.nih.gov/REST"
	DefaultRegulatoryBaseURL = "https://api.fda.gov"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = 20
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 24 * time.Hour
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Generative ────────────────────────────────────────────────────────────
	if cfg.Generative.BaseURL == "" {
		cfg.Generative.BaseURL = DefaultGenerativeBaseURL
	}
	if cfg.Generative.Model == "" {
		cfg.Generative.Model = DefaultGenerativeModel
	}
	if cfg.Generative.Temperature == 0 {
		cfg.Generative.Temperature = 0.2
	}
	if cfg.Generative.MaxTokens == 0 {
		cfg.Generative.MaxTokens = 2048
	}
	if cfg.Generative.Timeout == 0 {
		cfg.Generative.Timeout = 60 * time.Second
	}

	// ── Sources ───────────────────────────────────────────────────────────────
	if cfg.Sources.StructureBaseURL == "" {
		cfg.Sources.StructureBaseURL = DefaultStructureBaseURL
	}
	if cfg.Sources.VocabularyBaseURL == "" {
		cfg.Sources.VocabularyBaseURL = DefaultVocabularyBaseURL
	}
	if cfg.Sources.RegulatoryBaseURL == "" {
		cfg.Sources.RegulatoryBaseURL = DefaultRegulatoryBaseURL
	}
	if cfg.Sources.Timeout == 0 {
		cfg.Sources.Timeout = 10 * time.Second
	}
	if cfg.Sources.MaxRetries == 0 {
		cfg.Sources.MaxRetries = 3
	}
	if cfg.Sources.RetryBaseDelay == 0 {
		cfg.Sources.RetryBaseDelay = 500 * time.Millisecond
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	if cfg.Pipeline.EnrichTimeout == 0 {
		cfg.Pipeline.EnrichTimeout = 20 * time.Second
	}
	if cfg.Pipeline.ValidateTimeout == 0 {
		cfg.Pipeline.ValidateTimeout = 10 * time.Second
	}
	if cfg.Pipeline.CacheTTL == 0 {
		cfg.Pipeline.CacheTTL = 24 * time.Hour
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
