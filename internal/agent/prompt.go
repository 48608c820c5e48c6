package agent

import (
	"bytes"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PromptCache memoizes rendered prompts by spec hash. Prompt rendering is
// deterministic, so a shared cache is safe across concurrent runs.
type PromptCache struct {
	cache *lru.Cache[string, string]
}

func NewPromptCache(size int) (*PromptCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &PromptCache{cache: c}, nil
}

// Render returns the prompt for spec, building and caching it on a miss.
func (p *PromptCache) Render(spec Spec) string {
	if p == nil || p.cache == nil {
		return BuildPrompt(spec)
	}
	if prompt, ok := p.cache.Get(spec.Hash()); ok {
		return prompt
	}
	prompt := BuildPrompt(spec)
	p.cache.Add(spec.Hash(), prompt)
	return prompt
}

// BuildPrompt renders a sectioned prompt from the spec. The OUTPUT_FORMAT
// section insists on bare JSON; the normalizer still tolerates fenced or
// prose-wrapped responses when models ignore it.
func BuildPrompt(spec Spec) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", spec.Description)
	writeSection(&buf, "INSTRUCTIONS", spec.Instruction)
	writeSection(&buf, "OUTPUT_FORMAT", fmt.Sprintf(
		"Return ONLY a valid JSON object for the %q field. "+
			"No markdown fences, no explanatory text. "+
			"Start with { and end with }.", spec.OutputField))
	return strings.TrimSpace(buf.String()) + "\n"
}

func writeSection(buf *bytes.Buffer, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", title, body)
}
