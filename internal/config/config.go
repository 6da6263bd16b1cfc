// Package config loads process configuration from the environment, with
// sensible defaults for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process-wide configuration tree, assembled once at
// startup by Load.
type Config struct {
	Service       ServiceConfig
	Merge         MergeConfig
	Observability ObservabilityConfig
	Kafka         KafkaConfig
	HTTP          HTTPConfig
}

// ServiceConfig names the process and the ports it listens on.
type ServiceConfig struct {
	Principal string
	GRPCPort  string
	HTTPPort  string
}

// MergeConfig tunes the transcript-merge engine (spec §4.2, §5).
type MergeConfig struct {
	AllowedGaps     int
	RingCapacity    int
	DrainIntervalMs int
	PollIntervalMs  int
}

// ObservabilityConfig configures logging and the metrics endpoint.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsPort string
}

// KafkaConfig configures the snapshot publisher.
type KafkaConfig struct {
	Brokers   []string
	Topic     string
	Principal string
}

// HTTPConfig tunes the ingest/snapshot/stream HTTP surface.
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	DefaultMaxStream time.Duration
}

// Load reads Config from the environment, falling back to defaults for
// anything unset or unparsable.
func Load() *Config {
	servicePrincipal := envOrDefault("SERVICE_PRINCIPAL", "svc-speech-ingress")

	return &Config{
		Service: ServiceConfig{
			Principal: servicePrincipal,
			GRPCPort:  envOrDefault("GRPC_PORT", "50051"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Merge: MergeConfig{
			AllowedGaps:     envOrDefaultInt("MERGE_ALLOWED_GAPS", 4),
			RingCapacity:    envOrDefaultInt("MERGE_RING_CAPACITY", 10),
			DrainIntervalMs: envOrDefaultInt("MERGE_DRAIN_INTERVAL_MS", 1000),
			PollIntervalMs:  envOrDefaultInt("MERGE_POLL_INTERVAL_MS", 15),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Kafka: KafkaConfig{
			Brokers:   envOrDefaultList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:     envOrDefault("KAFKA_TOPIC", "transcript-snapshots"),
			Principal: envOrDefault("KAFKA_PRINCIPAL", servicePrincipal),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      envOrDefaultDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:     envOrDefaultDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			DefaultMaxStream: envOrDefaultDuration("HTTP_DEFAULT_MAX_STREAM", 2*time.Minute),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
