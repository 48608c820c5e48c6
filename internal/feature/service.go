// Package feature wires the generation pipelines end to end: load inputs,
// build per-run retrieval indexes, execute the agent graph, then reconcile
// the collected fragments into the declared output schema.
package feature

import (
	"context"
	"time"

	"go.uber.org/zap"

	"resumeforge/internal/agent"
	"resumeforge/internal/fetch"
	"resumeforge/internal/retrieval"
	"resumeforge/internal/schema"
	"resumeforge/internal/workflow"
)

// ResumeSource loads stored resumes for tailoring runs.
type ResumeSource interface {
	GetResume(ctx context.Context, id string) (schema.Resume, error)
}

// Service runs the generation features. All fields are capabilities; swap
// in fakes for offline runs and tests.
type Service struct {
	Resumes  ResumeSource
	Fetcher  fetch.Fetcher
	Invoker  agent.Invoker
	Model    string
	Deadline time.Duration
	Logger   *zap.Logger
	OnEvent  workflow.Progress
}

func NewService(resumes ResumeSource, fetcher fetch.Fetcher, inv agent.Invoker, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Resumes:  resumes,
		Fetcher:  fetcher,
		Invoker:  inv,
		Deadline: workflow.DefaultDeadline,
		Logger:   log,
	}
}

func (s *Service) orchestrator() *workflow.Orchestrator {
	o := workflow.NewOrchestrator(s.Invoker, s.Deadline, s.Logger)
	o.OnEvent = s.OnEvent
	return o
}

// runInput resolves each task's retrieval hints against the run's indexes
// and layers run constants plus earlier-stage fragments on top, so a later
// stage sees what the stages before it produced.
func runInput(resumeIdx, jobIdx retrieval.Store, extra map[string]any) workflow.InputFunc {
	return func(task workflow.Task, fragments map[string]any) map[string]any {
		in := make(map[string]any)
		if resumeIdx != nil && len(task.Spec.ResumeQueries) > 0 {
			in["resume_context"] = resumeIdx.Query(task.Spec.ResumeQueries, 4)
		}
		if jobIdx != nil && len(task.Spec.JobQueries) > 0 {
			in["job_context"] = jobIdx.Query(task.Spec.JobQueries, 10)
		}
		for k, v := range extra {
			in[k] = v
		}
		for k, v := range fragments {
			in[k] = v
		}
		return in
	}
}

// indexJob fetches the posting and indexes its chunks for the run.
func (s *Service) indexJob(ctx context.Context, jobURL string) (retrieval.Store, error) {
	chunks, err := s.Fetcher.Fetch(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	idx := retrieval.NewMemoryStore()
	if err := idx.Index(chunks, nil, nil); err != nil {
		return nil, err
	}
	return idx, nil
}
