package builders

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

var markdownHeading = regexp.MustCompile(`^#{1,3}\s+(.{5,100})$`)

// Lines made of navigation chrome are never meaningful titles.
var navigationTerms = []string{
	"home", "about", "contact", "menu", "login", "log in", "sign in",
	"sign up", "subscribe", "search", "skip to content", "privacy policy",
	"terms of service", "cookie", "newsletter", "share", "follow us",
}

// WebpageBuilder builds records for extracted webpage chunks.
type WebpageBuilder struct {
	buildCtx BuildContext
}

// NewWebpageBuilder creates a webpage content builder.
func NewWebpageBuilder(buildCtx BuildContext) *WebpageBuilder {
	return &WebpageBuilder{buildCtx: buildCtx}
}

// Kind returns the content kind this builder handles.
func (b *WebpageBuilder) Kind() models.ContentKind {
	return models.KindWebpage
}

// RequiredFields returns the field names every webpage record carries.
func (b *WebpageBuilder) RequiredFields() []string {
	return []string{"post_title", "post_content", "url_source"}
}

// Validate rejects chunks without content or with a source that does not
// parse as a URL.
func (b *WebpageBuilder) Validate(chunk *models.Chunk, _ *models.Metadata) error {
	if strings.TrimSpace(chunk.Content) == "" {
		return &ValidationError{Field: "post_content", Reason: "content is required"}
	}
	if !isHTTPURL(chunk.Source) {
		return &ValidationError{Field: "url_source", Reason: "source must be a valid URL"}
	}
	return nil
}

// Build produces the webpage-schema record for one chunk.
func (b *WebpageBuilder) Build(
	chunk *models.Chunk,
	collection string,
	meta *models.Metadata,
) (*models.ContentRecord, error) {
	if err := b.Validate(chunk, meta); err != nil {
		return nil, err
	}

	record := newRecord(models.KindWebpage, chunk, b.buildCtx)
	record.Fields["post_title"] = b.ExtractTitle(chunk, meta)
	record.Fields["post_content"] = chunk.Content
	record.Fields["url_source"] = chunk.Source

	if host := urlHost(chunk.Source); host != "" {
		record.Fields["domain"] = host
	}

	var language string
	if meta != nil && meta.Webpage != nil {
		wm := meta.Webpage
		setOptional(record.Fields, "meta_description", wm.MetaDescription)
		setOptional(record.Fields, "publish_date", wm.PublishDate)
		setOptional(record.Fields, "author", wm.Author)
		setOptional(record.Fields, "site_name", wm.SiteName)
		if wm.Language != nil {
			language = strings.TrimSpace(*wm.Language)
		}
	}
	if language == "" {
		language = detectLanguage(chunk.Content)
	}
	record.Fields["language"] = language

	return record, nil
}

// ExtractTitle derives a title: explicit metadata, then a markdown heading,
// then the first non-navigational line, then title-cased URL path segments,
// then the title-cased host, then a part-numbered fallback.
func (b *WebpageBuilder) ExtractTitle(chunk *models.Chunk, meta *models.Metadata) string {
	if meta != nil && meta.Webpage != nil && meta.Webpage.Title != nil {
		if title := strings.TrimSpace(*meta.Webpage.Title); title != "" {
			return title
		}
	}

	for _, line := range strings.Split(chunk.Content, "\n") {
		if m := markdownHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	if line := firstLine(chunk.Content, 10, 100, isNavigationLine); line != "" {
		return line
	}

	if segments := urlPathTitle(chunk.Source); segments != "" {
		return segments
	}
	if host := urlHost(chunk.Source); host != "" {
		return titleCaseWords(strings.ReplaceAll(host, ".", " "))
	}

	return fmt.Sprintf("Web Page (Part %d)", chunk.ChunkIndex+1)
}

func isNavigationLine(line string) bool {
	lower := strings.ToLower(line)
	for _, term := range navigationTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func urlHost(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	return u.Host
}

// urlPathTitle title-cases the path segments of the source URL.
func urlPathTitle(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return ""
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ""
	}
	words := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	if len(words) == 0 {
		return ""
	}
	return titleCaseWords(strings.Join(words, " "))
}
