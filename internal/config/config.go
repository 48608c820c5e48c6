// Package config loads process configuration from flags and the
// environment, with a .env file honored for local runs.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resumeforge/internal/workflow"
)

type Config struct {
	Port      string
	Env       string
	Model     string
	Deadline  time.Duration
	StorePath string
	Uploads   UploadsConfig
}

type UploadsConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	deadline := workflow.DefaultDeadline
	if raw := strings.TrimSpace(os.Getenv("RUN_DEADLINE_SECONDS")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			deadline = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		Port:      *port,
		Env:       env,
		Model:     strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		Deadline:  deadline,
		StorePath: firstNonEmpty(strings.TrimSpace(os.Getenv("STORE_PATH")), ".data/resumeforge.json"),
		Uploads:   loadUploadsConfig(env),
	}, nil
}

func loadUploadsConfig(env string) UploadsConfig {
	endpoint := resolveUploadsEndpoint(env)
	return UploadsConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("UPLOADS_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("UPLOADS_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("UPLOADS_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET")), "resumeforge-uploads"),
		UseSSL:    resolveUploadsUseSSL(env),
	}
}

func resolveUploadsEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("UPLOADS_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("UPLOADS_S3_ENDPOINT"))
}

func resolveUploadsUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("UPLOADS_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
