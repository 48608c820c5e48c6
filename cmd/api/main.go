package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/agent"
	"resumeforge/internal/config"
	"resumeforge/internal/feature"
	"resumeforge/internal/fetch"
	"resumeforge/internal/gateway"
	"resumeforge/internal/llmclient"
	"resumeforge/internal/store"
	"resumeforge/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var client llmclient.LLMClient
	if os.Getenv("GEMINI_API_KEY") == "" {
		logger.Warn("GEMINI_API_KEY not set, using fake LLM")
		client = llmclient.NewFakeClient()
	} else {
		client, err = llmclient.NewGeminiClient(ctx, cfg.Model)
		if err != nil {
			logger.Fatal("init gemini client", zap.Error(err))
		}
	}
	client = llmclient.Wrap(client,
		llmclient.Logging(logger),
		llmclient.Retry(3, time.Second),
	)
	defer func() { _ = client.Close() }()

	prompts, err := agent.NewPromptCache(256)
	if err != nil {
		logger.Fatal("init prompt cache", zap.Error(err))
	}

	st := store.NewFromEnv(cfg.StorePath)
	defer func() { _ = st.Close() }()

	features := feature.NewService(st, fetch.NewHTTPFetcher(logger),
		agent.NewLLMInvoker(client, prompts, logger), logger)
	features.Model = cfg.Model
	features.Deadline = cfg.Deadline

	srv := gateway.NewServer(features, st, logger)
	if cfg.Uploads.Enabled {
		bucket, err := uploads.New(uploads.Config{
			Endpoint:  cfg.Uploads.Endpoint,
			Region:    cfg.Uploads.Region,
			AccessKey: cfg.Uploads.AccessKey,
			SecretKey: cfg.Uploads.SecretKey,
			Bucket:    cfg.Uploads.Bucket,
			UseSSL:    cfg.Uploads.UseSSL,
		})
		if err != nil {
			logger.Fatal("init uploads bucket", zap.Error(err))
		}
		srv.Uploads = bucket
		logger.Info("exports enabled", zap.String("bucket", cfg.Uploads.Bucket))
	}
	logger.Info("starting api server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := http.ListenAndServe(cfg.Port, srv.Handler()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
