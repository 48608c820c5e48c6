package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"resumeforge/internal/agent"
	"resumeforge/internal/feature"
	"resumeforge/internal/fetch"
	"resumeforge/internal/llmclient"
	"resumeforge/internal/schema"
	"resumeforge/internal/store"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "store.json"))
	prompts, err := agent.NewPromptCache(16)
	if err != nil {
		t.Fatalf("prompt cache: %v", err)
	}
	inv := agent.NewLLMInvoker(llmclient.NewFakeClient(), prompts, nil)
	features := feature.NewService(st, fetch.NewHTTPFetcher(nil), inv, nil)
	return NewServer(features, st, nil), st
}

func TestPutAndGetResume(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body, _ := json.Marshal(schema.Resume{Name: "Ada Lovelace", UserID: "u1"})
	resp, err := http.Post(ts.URL+"/v1/resumes", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var saved schema.Resume
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("server should assign an id")
	}

	got, err := http.Get(ts.URL + "/v1/resumes/" + saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", got.StatusCode)
	}
}

func TestGetResumeNotFound(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/resumes/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTailorRequiresJobURL(t *testing.T) {
	srv, _ := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/resumes/r1/tailor", "application/json",
		bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestTailorEndToEnd(t *testing.T) {
	srv, st := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	job := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><main>Engineer role requiring Go.</main></body></html>"))
	}))
	defer job.Close()

	resume := schema.Resume{
		ID: "r1", UserID: "u1", Name: "Ada",
		Summary: "Engineer.",
		Skills:  []schema.Skill{{ID: "s1", Name: "Go", Level: 5}},
	}
	if err := st.PutResume(context.Background(), resume); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"jobUrl": job.URL})
	resp, err := http.Post(ts.URL+"/v1/resumes/r1/tailor", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var out struct {
		RunID  string `json:"runId"`
		Result struct {
			State  string         `json:"state"`
			Resume map[string]any `json:"resume"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RunID == "" {
		t.Fatal("run id missing")
	}
	if out.Result.State != "COMPLETED" {
		t.Fatalf("run not completed: %s", out.Result.State)
	}

	// The tailored document is persisted for later retrieval.
	tailored, err := st.GetTailored(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get tailored: %v", err)
	}
	if _, ok := tailored["experiences"]; !ok {
		t.Fatalf("persisted document incomplete: %v", tailored)
	}
}

func TestTailorStreamsProgressForClientRunID(t *testing.T) {
	srv, st := testServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	job := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><main>Engineer role requiring Go.</main></body></html>"))
	}))
	defer job.Close()

	resume := schema.Resume{
		ID: "r1", UserID: "u1", Name: "Ada",
		Summary: "Engineer.",
		Skills:  []schema.Skill{{ID: "s1", Name: "Go", Level: 5}},
	}
	if err := st.PutResume(context.Background(), resume); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	// A client picks the run id up front so it can subscribe before the run
	// starts. Events published during the run must reach that subscriber.
	const runID = "run-watch-1"
	events, cancel := srv.Hub.Subscribe(runID)
	defer cancel()

	body, _ := json.Marshal(map[string]string{"jobUrl": job.URL, "runId": runID})
	resp, err := http.Post(ts.URL+"/v1/resumes/r1/tailor", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var out struct {
		RunID string `json:"runId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RunID != runID {
		t.Fatalf("response run id = %q, want %q", out.RunID, runID)
	}

	var got []ProgressEvent
drain:
	for {
		select {
		case ev := <-events:
			got = append(got, ev)
		default:
			break drain
		}
	}
	if len(got) == 0 {
		t.Fatal("no progress events reached the subscriber")
	}
	for _, ev := range got {
		if ev.RunID != runID {
			t.Fatalf("event carries run id %q, want %q", ev.RunID, runID)
		}
	}
}
