// Package fetch turns a job-posting URL into pre-chunked text. The main or
// article element is preferred over the whole body so navigation chrome
// stays out of the retrieval index.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Fetcher is the capability consumed by feature orchestrators.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]string, error)
}

// DefaultChunkSize merges stripped lines up to roughly this many characters
// per chunk, which works well for job descriptions.
const DefaultChunkSize = 250

// DefaultMaxBytes caps how much of a response body is read into the HTML
// parser. Job postings fit comfortably; a hostile or misconfigured server
// cannot make the fetcher buffer an arbitrarily large document.
const DefaultMaxBytes = 2 << 20

// HTTPFetcher fetches and extracts without JS rendering.
type HTTPFetcher struct {
	Client    *http.Client
	ChunkSize int
	MaxBytes  int64
	Logger    *zap.Logger
}

func NewHTTPFetcher(log *zap.Logger) *HTTPFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: 15 * time.Second},
		ChunkSize: DefaultChunkSize,
		MaxBytes:  DefaultMaxBytes,
		Logger:    log,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: %s returned status %d", url, resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("fetch: parse html: %w", err)
	}

	root := findFirst(doc, "main")
	if root == nil {
		root = findFirst(doc, "article")
	}
	if root == nil {
		root = findFirst(doc, "body")
	}
	if root == nil {
		root = doc
	}

	text := extractText(root)
	chunks := ChunkText(text, f.ChunkSize)
	f.Logger.Debug("fetched job posting", zap.String("url", url), zap.Int("chunks", len(chunks)))
	return chunks, nil
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte('\n')
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// ChunkText splits text into chunks by merging non-empty lines until the
// size budget is reached. Splitting on newlines is effective for job
// descriptions.
func ChunkText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(line)+1 >= chunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
