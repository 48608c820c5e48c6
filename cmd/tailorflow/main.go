package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"resumeforge/internal/agent"
	"resumeforge/internal/feature"
	"resumeforge/internal/fetch"
	"resumeforge/internal/llmclient"
	"resumeforge/internal/schema"
)

// fileResume serves one resume loaded from disk.
type fileResume struct {
	resume schema.Resume
}

func (f fileResume) GetResume(_ context.Context, id string) (schema.Resume, error) {
	if id != "" && id != f.resume.ID {
		return schema.Resume{}, errors.New("unknown resume id: " + id)
	}
	return f.resume, nil
}

func main() {
	resumePath := flag.String("resume", "", "path to a resume JSON file")
	jobURL := flag.String("job", "", "job posting URL")
	mode := flag.String("mode", "tailor", "tailor, letter, or theme")
	prompt := flag.String("prompt", "", "user prompt (letter guidance or theme design brief)")
	jobTitle := flag.String("title", "", "job title for the letter header")
	company := flag.String("company", "", "company name for the letter header")
	model := flag.String("model", "", "Gemini model id")
	outDir := flag.String("out", "out", "output directory")
	deadline := flag.Duration("deadline", 60*time.Second, "run deadline")
	offline := flag.Bool("offline", false, "use the fake LLM instead of Gemini")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	var client llmclient.LLMClient
	if *offline || os.Getenv("GEMINI_API_KEY") == "" {
		logger.Info("running with fake LLM")
		client = llmclient.NewFakeClient()
	} else {
		client, err = llmclient.NewGeminiClient(ctx, *model)
		if err != nil {
			log.Fatal(err)
		}
	}
	client = llmclient.Wrap(client, llmclient.Logging(logger), llmclient.Retry(3, time.Second))
	defer func() { _ = client.Close() }()

	prompts, err := agent.NewPromptCache(256)
	if err != nil {
		log.Fatal(err)
	}

	var resume schema.Resume
	if *mode != "theme" {
		if *resumePath == "" {
			log.Fatal("-resume is required")
		}
		if *jobURL == "" {
			log.Fatal("-job is required")
		}
		b, err := os.ReadFile(*resumePath)
		if err != nil {
			log.Fatal(err)
		}
		if err := json.Unmarshal(b, &resume); err != nil {
			log.Fatal(err)
		}
	}

	svc := feature.NewService(fileResume{resume: resume}, fetch.NewHTTPFetcher(logger),
		agent.NewLLMInvoker(client, prompts, logger), logger)
	svc.Model = *model
	svc.Deadline = *deadline
	svc.OnEvent = func(stage int, task, status string) {
		fmt.Printf("stage %d  %-26s %s\n", stage, task, status)
	}

	var (
		result any
		name   string
	)
	switch *mode {
	case "tailor":
		result, err = svc.TailorResume(ctx, resume.ID, *jobURL)
		name = "tailored_resume.json"
	case "letter":
		result, err = svc.GenerateCoverLetter(ctx, feature.CoverLetterRequest{
			ResumeID:   resume.ID,
			JobURL:     *jobURL,
			JobTitle:   *jobTitle,
			Company:    *company,
			UserPrompt: *prompt,
		})
		name = "cover_letter.json"
	case "theme":
		if *prompt == "" {
			log.Fatal("-prompt is required for theme mode")
		}
		result, err = svc.GenerateTheme(ctx, "", *prompt)
		name = "theme.json"
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	path := filepath.Join(*outDir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", path)
}
