// Package i18n resolves localized UI strings. Bundles are nested JSON
// documents addressed by dotted key paths; unknown keys resolve to the key
// itself so missing translations degrade visibly but harmlessly.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JimmyPun610/expense-tracker/internal/cache"
)

//go:embed locales/*.json
var localesFS embed.FS

const DefaultLang = "en"

// Bundle is one language's nested string document.
type Bundle map[string]any

// Catalog serves language bundles from embedded defaults, optionally
// refreshed from a remote base URL ("<base>/<lang>.json"). Fetched bundles
// are cached with a TTL.
type Catalog struct {
	baseURL  string
	client   *http.Client
	embedded map[string]Bundle
	fetched  *cache.LRU[Bundle]
}

func NewCatalog(baseURL string) *Catalog {
	c := &Catalog{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: 5 * time.Second},
		embedded: make(map[string]Bundle),
		fetched:  cache.NewLRU[Bundle](16, 10*time.Minute),
	}

	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		slog.Error("Reading embedded locales failed", "error", err)
		return c
	}
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), ".json")
		data, err := localesFS.ReadFile("locales/" + e.Name())
		if err != nil {
			continue
		}
		var b Bundle
		if err := json.Unmarshal(data, &b); err != nil {
			slog.Error("Parsing embedded locale failed", "lang", lang, "error", err)
			continue
		}
		c.embedded[lang] = b
	}
	return c
}

// Languages lists the embedded language codes.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.embedded))
	for lang := range c.embedded {
		out = append(out, lang)
	}
	return out
}

// Bundle returns the document for lang, falling back to the default
// language when the requested one is unknown.
func (c *Catalog) Bundle(ctx context.Context, lang string) Bundle {
	if b, ok := c.lookup(ctx, lang); ok {
		return b
	}
	if b, ok := c.lookup(ctx, DefaultLang); ok {
		return b
	}
	return Bundle{}
}

// Get resolves a dotted key path ("form.scan_error") against the bundle for
// lang. Missing paths return the key itself.
func (c *Catalog) Get(ctx context.Context, lang, key string) string {
	var node any = map[string]any(c.Bundle(ctx, lang))
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node, ok = m[part]
		if !ok {
			return key
		}
	}
	if s, ok := node.(string); ok {
		return s
	}
	return key
}

func (c *Catalog) lookup(ctx context.Context, lang string) (Bundle, bool) {
	if c.baseURL != "" {
		if b, ok := c.fetched.Get(lang); ok {
			return b, true
		}
		if b, err := c.fetch(ctx, lang); err == nil {
			c.fetched.Set(lang, b)
			return b, true
		} else {
			slog.WarnContext(ctx, "Fetching remote locale failed, using embedded", "lang", lang, "error", err)
		}
	}
	b, ok := c.embedded[lang]
	return b, ok
}

func (c *Catalog) fetch(ctx context.Context, lang string) (Bundle, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build locale request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch locale: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch locale: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read locale body: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse locale: %w", err)
	}
	return b, nil
}
