package feature

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/agent"
	"resumeforge/internal/assemble"
	"resumeforge/internal/retrieval"
	"resumeforge/internal/schema"
	"resumeforge/internal/workflow"
)

// ErrNoResumeContent means the stored resume has nothing to index, so a
// tailoring run cannot produce anything grounded. Fail before any agent
// spends tokens.
var ErrNoResumeContent = errors.New("feature: resume has no indexable content")

// TailoredResume is the outcome of one tailoring run: the assembled resume
// document plus per-field diagnostics and run telemetry.
type TailoredResume struct {
	ResumeID    string                `json:"resumeId"`
	JobURL      string                `json:"jobUrl"`
	Resume      map[string]any        `json:"resume"`
	Diagnostics []assemble.Diagnostic `json:"diagnostics"`
	State       string                `json:"state"`
	Took        time.Duration         `json:"took"`
}

// TailorResume rewrites a stored resume against a job posting. Stage one
// runs the experience, skills, and projects agents concurrently; stage two
// runs the summary agent over their output. Sections the agents do not
// touch (education, contact info, name) are carried over from the stored
// resume, and the whole collection is reconciled into the declared schema.
func (s *Service) TailorResume(ctx context.Context, resumeID, jobURL string) (*TailoredResume, error) {
	resume, err := s.Resumes.GetResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("feature: load resume %s: %w", resumeID, err)
	}

	docs, metas, ids := BuildResumeDocuments(resume)
	if len(docs) == 0 {
		return nil, ErrNoResumeContent
	}
	resumeIdx := retrieval.NewMemoryStore()
	if err := resumeIdx.Index(docs, metas, ids); err != nil {
		return nil, err
	}

	jobIdx, err := s.indexJob(ctx, jobURL)
	if err != nil {
		return nil, fmt.Errorf("feature: index job posting: %w", err)
	}

	experience, skills, projects, summary := agent.ResumeSpecs(s.Model)
	graph, err := workflow.NewGraph(
		workflow.Task{Name: experience.Name, Field: experience.OutputField, Spec: experience},
		workflow.Task{Name: skills.Name, Field: skills.OutputField, Spec: skills},
		workflow.Task{Name: projects.Name, Field: projects.OutputField, Spec: projects},
		workflow.Task{
			Name:      summary.Name,
			Field:     summary.OutputField,
			Spec:      summary,
			DependsOn: []string{experience.Name, skills.Name, projects.Name},
		},
	)
	if err != nil {
		return nil, err
	}

	res, err := s.orchestrator().Execute(ctx, graph, runInput(resumeIdx, jobIdx, map[string]any{
		"job_url": jobURL,
	}))
	if err != nil {
		return nil, err
	}

	// Pass-through sections come from the store, already enveloped the way
	// agent fragments are.
	res.Fragments["education"] = map[string]any{"education": plain(resume.Education)}
	res.Fragments["contact_info"] = map[string]any{"contact_info": plain(resume.ContactInfo)}
	res.Fragments["name"] = map[string]any{"name": resume.Name}

	asm := assemble.New(schema.ResumeFields(), s.Logger)
	doc, diags := asm.Assemble(res.Fragments)

	s.Logger.Info("tailoring run finished",
		zap.String("resume_id", resumeID),
		zap.String("state", res.State.String()),
		zap.Duration("took", res.Took),
		zap.String("fields", assemble.Summarize(diags)))

	return &TailoredResume{
		ResumeID:    resumeID,
		JobURL:      jobURL,
		Resume:      doc,
		Diagnostics: diags,
		State:       res.State.String(),
		Took:        res.Took,
	}, nil
}
