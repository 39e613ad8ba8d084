// Package builders turns chunks plus typed metadata into schema-shaped
// content records, one builder per content kind.
package builders

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/code-sleuth/vecbridge-go/internal/manager/interfaces"
	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

// BuildContext is the read-only context shared by all builders in one run:
// the indexing identity for the envelope and the clock used for indexed_at.
type BuildContext struct {
	SiteIdentity string
	Tenant       string
	IndexedBy    string
	Now          func() time.Time
}

func (c BuildContext) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// ValidationError reports a chunk the builder rejected before submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Reason)
}

// ForKind returns the builder for a content kind. The switch is exhaustive
// over the closed ContentKind set.
func ForKind(kind models.ContentKind, buildCtx BuildContext) interfaces.ContentBuilder {
	switch kind {
	case models.KindVideo:
		return NewVideoBuilder(buildCtx)
	case models.KindDocument:
		return NewDocumentBuilder(buildCtx)
	case models.KindWebpage:
		return NewWebpageBuilder(buildCtx)
	case models.KindGeneric:
		return NewGenericBuilder(buildCtx)
	default:
		return NewGenericBuilder(buildCtx)
	}
}

// newRecord fills the shared envelope for one chunk.
func newRecord(kind models.ContentKind, chunk *models.Chunk, buildCtx BuildContext) *models.ContentRecord {
	return &models.ContentRecord{
		Kind:         kind,
		SourceURL:    chunk.Source,
		ChunkIndex:   chunk.ChunkIndex,
		IndexedBy:    buildCtx.IndexedBy,
		SiteIdentity: buildCtx.SiteIdentity,
		Tenant:       buildCtx.Tenant,
		IndexedAt:    buildCtx.now(),
		Fields:       make(map[string]any),
	}
}

// setOptional adds a field only when it carries a non-empty value; absent
// optionals are omitted rather than emitted as nulls.
func setOptional(fields map[string]any, key string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		fields[key] = *value
	}
}

// isHTTPURL reports whether s parses as an absolute http(s) URL with a host.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// firstLine returns the first line of content whose trimmed length falls in
// [minLen, maxLen] and that the skip filter accepts. Empty when none qualify.
func firstLine(content string, minLen, maxLen int, skip func(string) bool) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		length := len([]rune(line))
		if length < minLen || length > maxLen {
			continue
		}
		if skip != nil && skip(line) {
			continue
		}
		return line
	}
	return ""
}

// filenameFromSource extracts the last path segment of a URL or path,
// without its extension.
func filenameFromSource(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(base))
}

// titleCaseWords uppercases the first rune of each whitespace-separated word.
func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// truncate shortens s to at most maxRunes runes, appending an ellipsis when
// anything was cut.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}

// detectLanguage is a cheap indicator-word heuristic: assume English unless
// several French function words are present.
func detectLanguage(content string) string {
	content = strings.ToLower(content)

	frenchIndicators := []string{
		"le ", "la ", "les ", "une ", "des ",
		"et ", "mais ", "donc ", "car ",
		"que ", "qui ", "dont ", "où ",
		"avec ", "sans ", "pour ", "par ",
		"dans ", "du ", "au ", "aux ",
	}

	frenchCount := 0
	for _, indicator := range frenchIndicators {
		if strings.Contains(content, indicator) {
			frenchCount++
		}
	}

	const threshold = 3
	if frenchCount >= threshold {
		return "fr"
	}
	return "en"
}
