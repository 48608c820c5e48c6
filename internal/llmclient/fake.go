package llmclient

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per agent for
// offline runs and testing.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	agent := AgentFrom(ctx)
	var obj any
	switch agent {
	case "experience_agent":
		obj = map[string]any{
			"experiences": []any{
				map[string]any{
					"id":               "exp_1",
					"company":          "Fake Corp",
					"position":         "Software Engineer",
					"startDate":        "2020-01",
					"endDate":          "2023-06",
					"responsibilities": []string{"built fake systems"},
				},
			},
		}
	case "skills_agent":
		obj = map[string]any{
			"skills": []any{
				map[string]any{"id": "skill_1", "name": "Go", "level": 4},
			},
			"additional_skills": []string{"Git"},
		}
	case "projects_agent":
		obj = map[string]any{
			"projects": []any{
				map[string]any{
					"id":          "proj_1",
					"name":        "Fake Project",
					"description": "a deterministic project",
					"url":         "https://example.com",
				},
			},
		}
	case "summary_agent":
		obj = map[string]any{"summary": "Deterministic professional summary."}
	case "cover_letter_analyst":
		obj = map[string]any{
			"role_summary":     "Fake Role",
			"company_summary":  "Fake Company",
			"key_requirements": []string{"requirement one"},
			"talking_points":   []string{"talking point one"},
		}
	case "cover_letter_writer", "cover_letter_editor":
		obj = map[string]any{
			"opening_paragraph":  "Dear Hiring Manager,",
			"body_paragraphs":    []string{"A deterministic body paragraph."},
			"company_connection": "",
			"closing_paragraph":  "Sincerely, Fake Candidate",
			"tone":               "professional",
			"word_count":         42,
			"ats_score":          7,
		}
	case "theme_brief_agent":
		obj = map[string]any{
			"name":          "Fake Theme",
			"color_palette": []any{map[string]any{"role": "primary", "hex": "#112233"}},
			"google_fonts":  []string{"Lato"},
		}
	case "resume_theme_agent", "cover_letter_theme_agent":
		obj = map[string]any{
			"html": "<main>{{ name }}</main>",
			"css":  "main { color: #112233; }",
		}
	default:
		// generic empty JSON object
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}
