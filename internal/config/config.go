package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	// ProductServiceURL has no default: the service refuses to start
	// without knowing which inventory deployment to ask.
	ProductServiceURL string
	InventoryTimeout  time.Duration

	LogLevel string

	// KafkaBrokers empty disables event publishing.
	KafkaBrokers []string
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	return &Config{
		ServiceName:       EnvDefault("SERVICE_NAME", "cart"),
		ServerPort:        EnvIntDefault("SERVER_PORT", 8080),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ProductServiceURL: must(os.Getenv("PRODUCT_SERVICE_URL"), "PRODUCT_SERVICE_URL"),
		InventoryTimeout:  time.Duration(EnvIntDefault("INVENTORY_TIMEOUT_SECONDS", 5)) * time.Second,
		LogLevel:          EnvDefault("LOG_LEVEL", "info"),
		KafkaBrokers:      CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
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
