package feature

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeforge/internal/agent"
	"resumeforge/internal/assemble"
	"resumeforge/internal/schema"
	"resumeforge/internal/workflow"
)

// ErrThemeFailed means neither template came out of the run usable.
var ErrThemeFailed = errors.New("feature: theme generation produced no usable templates")

// GeneratedTheme pairs the finished theme with its diagnostics.
type GeneratedTheme struct {
	Theme       schema.Theme          `json:"theme"`
	Diagnostics []assemble.Diagnostic `json:"diagnostics"`
	State       string                `json:"state"`
}

// GenerateTheme turns a free-form design prompt into a pair of HTML/CSS
// templates. The brief agent runs first; both template agents consume its
// fragment concurrently in the second stage.
func (s *Service) GenerateTheme(ctx context.Context, userID, designPrompt string) (*GeneratedTheme, error) {
	brief, resumeTheme, letterTheme := agent.ThemeSpecs(s.Model)
	graph, err := workflow.NewGraph(
		workflow.Task{Name: brief.Name, Field: brief.OutputField, Spec: brief},
		workflow.Task{Name: resumeTheme.Name, Field: resumeTheme.OutputField, Spec: resumeTheme, DependsOn: []string{brief.Name}},
		workflow.Task{Name: letterTheme.Name, Field: letterTheme.OutputField, Spec: letterTheme, DependsOn: []string{brief.Name}},
	)
	if err != nil {
		return nil, err
	}

	res, err := s.orchestrator().Execute(ctx, graph, runInput(nil, nil, map[string]any{
		"design_prompt": designPrompt,
	}))
	if err != nil {
		return nil, err
	}

	asm := assemble.New(schema.ThemeFields(), s.Logger)
	doc, diags := asm.Assemble(res.Fragments)

	if statusOf(diags, "resume_theme") == assemble.StatusFailed &&
		statusOf(diags, "cover_letter_theme") == assemble.StatusFailed {
		s.Logger.Error("both templates failed assembly",
			zap.String("fields", assemble.Summarize(diags)))
		return nil, ErrThemeFailed
	}

	theme := buildTheme(userID, doc)
	s.Logger.Info("theme run finished",
		zap.String("state", res.State.String()),
		zap.Duration("took", res.Took),
		zap.String("fields", assemble.Summarize(diags)))

	return &GeneratedTheme{Theme: theme, Diagnostics: diags, State: res.State.String()}, nil
}

func buildTheme(userID string, doc map[string]any) schema.Theme {
	briefRec, _ := doc["theme_brief"].(map[string]any)
	resumeRec, _ := doc["resume_theme"].(map[string]any)
	letterRec, _ := doc["cover_letter_theme"].(map[string]any)

	theme := schema.Theme{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        stringAt(briefRec, "name"),
		GoogleFonts: stringsAt(briefRec, "google_fonts"),
		ResumeHTML:  stringAt(resumeRec, "html"),
		ResumeCSS:   stringAt(resumeRec, "css"),
		LetterHTML:  stringAt(letterRec, "html"),
		LetterCSS:   stringAt(letterRec, "css"),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if theme.Name == "" {
		theme.Name = "Untitled Theme"
	}
	if palette, ok := briefRec["color_palette"].([]any); ok {
		for _, c := range palette {
			rec, ok := c.(map[string]any)
			if !ok {
				continue
			}
			theme.Colors = append(theme.Colors, schema.Color{
				Role: stringAt(rec, "role"),
				Hex:  stringAt(rec, "hex"),
			})
		}
	}
	return theme
}
