package feature

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"resumeforge/internal/schema"
)

// BuildResumeDocuments flattens a resume into retrieval documents with
// positional metadata and ids: one document per responsibility, project,
// education entry, plus the skills digest and summary.
func BuildResumeDocuments(r schema.Resume) (documents []string, metadatas []map[string]string, ids []string) {
	for _, job := range r.Experience {
		for _, resp := range job.Responsibilities {
			resp = strings.TrimSpace(resp)
			if resp == "" {
				continue
			}
			documents = append(documents, resp)
			metadatas = append(metadatas, map[string]string{
				"type":      "experience",
				"company":   orUnknown(job.Company, "Unknown Company"),
				"position":  orUnknown(job.Position, "Unknown Position"),
				"startDate": orUnknown(job.StartDate, "Unknown"),
				"endDate":   orUnknown(job.EndDate, "Unknown"),
			})
			ids = append(ids, uuid.NewString())
		}
	}

	for _, p := range r.Projects {
		content := strings.TrimSpace(strings.Trim(p.Name+": "+p.Description, ": "))
		if content == "" {
			continue
		}
		documents = append(documents, content)
		metadatas = append(metadatas, map[string]string{
			"type": "project",
			"name": orUnknown(p.Name, "Unknown Project"),
		})
		ids = append(ids, orUnknown(p.ID, uuid.NewString()))
	}

	if len(r.Skills) > 0 {
		names := make([]string, 0, len(r.Skills))
		for _, s := range r.Skills {
			if s.Name != "" {
				names = append(names, s.Name)
			}
		}
		if len(names) > 0 {
			documents = append(documents, "Skills: "+strings.Join(names, ", "))
			metadatas = append(metadatas, map[string]string{"type": "skills_summary"})
			ids = append(ids, "skills_summary_01")
		}
	}

	if strings.TrimSpace(r.Summary) != "" {
		documents = append(documents, r.Summary)
		metadatas = append(metadatas, map[string]string{"type": "summary"})
		ids = append(ids, "main_summary_01")
	}

	for _, e := range r.Education {
		content := strings.TrimSpace(fmt.Sprintf("%s from %s", e.Degree, e.Institution))
		if content == "" || content == "from" {
			continue
		}
		documents = append(documents, content)
		metadatas = append(metadatas, map[string]string{
			"type":        "education",
			"institution": e.Institution,
			"degree":      e.Degree,
			"startDate":   orUnknown(e.StartDate, "Unknown"),
			"endDate":     orUnknown(e.EndDate, "Unknown"),
		})
		ids = append(ids, orUnknown(e.ID, uuid.NewString()))
	}

	return documents, metadatas, ids
}

func orUnknown(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// plain converts typed values into the map/list/scalar shapes the assembly
// pipeline works with.
func plain(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
