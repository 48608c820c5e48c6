package feature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"resumeforge/internal/agent"
	"resumeforge/internal/assemble"
	"resumeforge/internal/fetch"
	"resumeforge/internal/llmclient"
	"resumeforge/internal/schema"
)

type memResumes struct {
	resumes map[string]schema.Resume
}

func (m memResumes) GetResume(_ context.Context, id string) (schema.Resume, error) {
	r, ok := m.resumes[id]
	if !ok {
		return schema.Resume{}, ErrNoResumeContent
	}
	return r, nil
}

func testResume() schema.Resume {
	return schema.Resume{
		ID:      "r1",
		UserID:  "u1",
		Name:    "Ada Lovelace",
		Summary: "Engineer and mathematician.",
		ContactInfo: []schema.ContactInfo{
			{Email: "ada@example.com"},
		},
		Experience: []schema.Experience{
			{
				ID: "e1", Company: "Analytical Engines", Position: "Engineer",
				StartDate: "1840-01", EndDate: "1843-12",
				Responsibilities: []string{"designed the first published algorithm"},
			},
		},
		Education: []schema.Education{
			{ID: "ed1", Institution: "Private tutoring", Degree: "Mathematics",
				StartDate: "1825", EndDate: "1835"},
		},
		Skills:   []schema.Skill{{ID: "s1", Name: "Mathematics", Level: 5}},
		Projects: []schema.Project{{ID: "p1", Name: "Notes on the Analytical Engine", Description: "First program"}},
	}
}

func jobServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>
<h1>Senior Engineer</h1>
<p>Looking for experience with algorithms and mathematics.</p>
</main></body></html>`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testService(t *testing.T, resumes map[string]schema.Resume) *Service {
	t.Helper()
	prompts, err := agent.NewPromptCache(16)
	require.NoError(t, err)
	inv := agent.NewLLMInvoker(llmclient.NewFakeClient(), prompts, nil)
	return NewService(memResumes{resumes: resumes}, fetch.NewHTTPFetcher(nil), inv, nil)
}

func TestTailorResumeEndToEnd(t *testing.T) {
	svc := testService(t, map[string]schema.Resume{"r1": testResume()})
	srv := jobServer(t)

	out, err := svc.TailorResume(context.Background(), "r1", srv.URL)
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", out.State)

	// Every declared field is present in the assembled document.
	for _, field := range []string{"experiences", "skills", "projects", "education", "contact_info", "summary", "name"} {
		require.Contains(t, out.Resume, field)
	}

	require.Equal(t, "Ada Lovelace", out.Resume["name"])
	require.Equal(t, "Deterministic professional summary.", out.Resume["summary"])

	experiences, ok := out.Resume["experiences"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, experiences)

	for _, d := range out.Diagnostics {
		require.Equal(t, assemble.StatusOK, d.Status, d.Field)
	}
}

func TestTailorResumeEmptyResumeFailsFast(t *testing.T) {
	svc := testService(t, map[string]schema.Resume{"empty": {ID: "empty"}})
	srv := jobServer(t)

	_, err := svc.TailorResume(context.Background(), "empty", srv.URL)
	require.ErrorIs(t, err, ErrNoResumeContent)
}

func TestTailorResumeBadJobURL(t *testing.T) {
	svc := testService(t, map[string]schema.Resume{"r1": testResume()})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := svc.TailorResume(context.Background(), "r1", srv.URL)
	require.Error(t, err)
}

func TestGenerateCoverLetterEndToEnd(t *testing.T) {
	svc := testService(t, map[string]schema.Resume{"r1": testResume()})
	srv := jobServer(t)

	out, err := svc.GenerateCoverLetter(context.Background(), CoverLetterRequest{
		ResumeID: "r1",
		JobURL:   srv.URL,
		JobTitle: "Senior Engineer",
		Company:  "Acme",
	})
	require.NoError(t, err)

	require.Equal(t, "r1", out.Letter.ResumeID)
	require.Equal(t, "Senior Engineer - Acme", out.Letter.Title)
	require.NotEmpty(t, out.Letter.OpeningParagraph)
	require.NotEmpty(t, out.Letter.BodyParagraphs)
	require.NotEmpty(t, out.Letter.ID)
	require.Equal(t, 42, out.Letter.WordCount)
	require.NotNil(t, out.Analysis)
}

func TestGenerateThemeEndToEnd(t *testing.T) {
	svc := testService(t, nil)

	out, err := svc.GenerateTheme(context.Background(), "u1", "dark slate with serif fonts")
	require.NoError(t, err)

	require.Equal(t, "u1", out.Theme.UserID)
	require.NotEmpty(t, out.Theme.Name)
	require.NotEmpty(t, out.Theme.ResumeHTML)
	require.NotEmpty(t, out.Theme.LetterCSS)
	require.NotEmpty(t, out.Theme.Colors)
	require.NotEmpty(t, out.Theme.ID)
}

func TestBuildResumeDocuments(t *testing.T) {
	docs, metas, ids := BuildResumeDocuments(testResume())
	require.NotEmpty(t, docs)
	require.Len(t, metas, len(docs))
	require.Len(t, ids, len(docs))

	types := map[string]bool{}
	for _, m := range metas {
		types[m["type"]] = true
	}
	for _, want := range []string{"experience", "project", "skills_summary", "summary", "education"} {
		require.True(t, types[want], "missing document type %s", want)
	}
}

func TestBuildResumeDocumentsEmpty(t *testing.T) {
	docs, _, _ := BuildResumeDocuments(schema.Resume{})
	require.Empty(t, docs)
}
