package feature

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeforge/internal/agent"
	"resumeforge/internal/assemble"
	"resumeforge/internal/retrieval"
	"resumeforge/internal/schema"
	"resumeforge/internal/workflow"
)

// ErrLetterFailed means every phase of the letter pipeline produced nothing
// usable; unlike a partially repaired letter there is no result worth
// returning.
var ErrLetterFailed = errors.New("feature: cover letter generation produced no usable letter")

// CoverLetterRequest is the input of one cover letter run.
type CoverLetterRequest struct {
	ResumeID   string `json:"resumeId"`
	JobURL     string `json:"jobUrl"`
	JobTitle   string `json:"jobTitle"`
	Company    string `json:"company"`
	UserPrompt string `json:"userPrompt,omitempty"`
}

// GeneratedCoverLetter pairs the finished letter with its diagnostics.
type GeneratedCoverLetter struct {
	Letter      schema.CoverLetter    `json:"letter"`
	Analysis    map[string]any        `json:"analysis"`
	Diagnostics []assemble.Diagnostic `json:"diagnostics"`
	State       string                `json:"state"`
}

// GenerateCoverLetter runs the analyst, writer, and editor agents in
// sequence: each stage reads the previous stage's fragment from its input.
// The editor's output becomes the letter; a run whose letter field fails
// assembly outright is an error, not an all-empty result.
func (s *Service) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*GeneratedCoverLetter, error) {
	resume, err := s.Resumes.GetResume(ctx, req.ResumeID)
	if err != nil {
		return nil, fmt.Errorf("feature: load resume %s: %w", req.ResumeID, err)
	}

	docs, metas, ids := BuildResumeDocuments(resume)
	if len(docs) == 0 {
		return nil, ErrNoResumeContent
	}
	resumeIdx := retrieval.NewMemoryStore()
	if err := resumeIdx.Index(docs, metas, ids); err != nil {
		return nil, err
	}

	jobIdx, err := s.indexJob(ctx, req.JobURL)
	if err != nil {
		return nil, fmt.Errorf("feature: index job posting: %w", err)
	}

	analyst, writer, editor := agent.CoverLetterSpecs(s.Model)
	graph, err := workflow.NewGraph(
		workflow.Task{Name: analyst.Name, Field: analyst.OutputField, Spec: analyst},
		workflow.Task{Name: writer.Name, Field: writer.OutputField, Spec: writer, DependsOn: []string{analyst.Name}},
		workflow.Task{Name: editor.Name, Field: editor.OutputField, Spec: editor, DependsOn: []string{writer.Name}},
	)
	if err != nil {
		return nil, err
	}

	extra := map[string]any{
		"job_title":      req.JobTitle,
		"company":        req.Company,
		"candidate_name": resume.Name,
	}
	if req.UserPrompt != "" {
		extra["user_prompt"] = req.UserPrompt
	}

	res, err := s.orchestrator().Execute(ctx, graph, runInput(resumeIdx, jobIdx, extra))
	if err != nil {
		return nil, err
	}

	asm := assemble.New(schema.CoverLetterFields(), s.Logger)
	doc, diags := asm.Assemble(res.Fragments)

	if statusOf(diags, "letter") == assemble.StatusFailed {
		s.Logger.Error("letter field failed assembly",
			zap.String("resume_id", req.ResumeID),
			zap.String("fields", assemble.Summarize(diags)))
		return nil, ErrLetterFailed
	}

	letter := buildCoverLetter(req, doc)
	s.Logger.Info("cover letter run finished",
		zap.String("resume_id", req.ResumeID),
		zap.String("state", res.State.String()),
		zap.Duration("took", res.Took),
		zap.String("fields", assemble.Summarize(diags)))

	analysis, _ := doc["analysis"].(map[string]any)
	return &GeneratedCoverLetter{
		Letter:      letter,
		Analysis:    analysis,
		Diagnostics: diags,
		State:       res.State.String(),
	}, nil
}

func buildCoverLetter(req CoverLetterRequest, doc map[string]any) schema.CoverLetter {
	letter, _ := doc["letter"].(map[string]any)
	now := time.Now().UTC().Format(time.RFC3339)

	cl := schema.CoverLetter{
		ID:       uuid.NewString(),
		ResumeID: req.ResumeID,
		Title:    strings.TrimSpace(req.JobTitle + " - " + req.Company),
		JobDetails: schema.JobDetails{
			Title:   req.JobTitle,
			Company: req.Company,
			URL:     req.JobURL,
		},
		OpeningParagraph:  stringAt(letter, "opening_paragraph"),
		BodyParagraphs:    stringsAt(letter, "body_paragraphs"),
		CompanyConnection: stringAt(letter, "company_connection"),
		ClosingParagraph:  stringAt(letter, "closing_paragraph"),
		Tone:              stringAt(letter, "tone"),
		WordCount:         intAt(letter, "word_count"),
		ATSScore:          intAt(letter, "ats_score"),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if cl.Title == "-" || cl.Title == "" {
		cl.Title = "Cover Letter"
	}
	if cl.WordCount == 0 {
		cl.WordCount = countWords(cl)
	}
	return cl
}

func countWords(cl schema.CoverLetter) int {
	n := len(strings.Fields(cl.OpeningParagraph)) + len(strings.Fields(cl.ClosingParagraph))
	for _, p := range cl.BodyParagraphs {
		n += len(strings.Fields(p))
	}
	return n
}

func statusOf(diags []assemble.Diagnostic, field string) assemble.Status {
	for _, d := range diags {
		if d.Field == field {
			return d.Status
		}
	}
	return assemble.StatusFailed
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringsAt(m map[string]any, key string) []string {
	list, _ := m[key].([]any)
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intAt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
