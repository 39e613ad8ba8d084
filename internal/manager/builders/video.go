package builders

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/code-sleuth/vecbridge-go/internal/manager/chunkers"
	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

var (
	youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([A-Za-z0-9_-]{6,})`)
	vimeoIDPattern   = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// VideoBuilder builds records for video transcript chunks.
type VideoBuilder struct {
	buildCtx BuildContext
}

// NewVideoBuilder creates a video content builder.
func NewVideoBuilder(buildCtx BuildContext) *VideoBuilder {
	return &VideoBuilder{buildCtx: buildCtx}
}

// Kind returns the content kind this builder handles.
func (b *VideoBuilder) Kind() models.ContentKind {
	return models.KindVideo
}

// RequiredFields returns the field names every video record carries.
func (b *VideoBuilder) RequiredFields() []string {
	return []string{"video_title", "transcript_content", "url_source"}
}

// Validate rejects chunks without content or without a URL-formatted source.
func (b *VideoBuilder) Validate(chunk *models.Chunk, _ *models.Metadata) error {
	if strings.TrimSpace(chunk.Content) == "" {
		return &ValidationError{Field: "transcript_content", Reason: "content is required"}
	}
	if !isHTTPURL(chunk.Source) {
		return &ValidationError{Field: "url_source", Reason: "source must be a valid URL"}
	}
	return nil
}

// Build produces the video-schema record for one chunk.
func (b *VideoBuilder) Build(
	chunk *models.Chunk,
	collection string,
	meta *models.Metadata,
) (*models.ContentRecord, error) {
	if err := b.Validate(chunk, meta); err != nil {
		return nil, err
	}

	record := newRecord(models.KindVideo, chunk, b.buildCtx)
	record.Fields["video_title"] = b.ExtractTitle(chunk, meta)
	record.Fields["transcript_content"] = chunk.Content
	record.Fields["url_source"] = chunk.Source

	if cue := videoCue(chunk); cue != "" {
		record.Fields["video_cue"] = cue
	}

	if meta != nil && meta.Video != nil {
		vm := meta.Video
		setOptional(record.Fields, "speaker", vm.Speaker)
		setOptional(record.Fields, "video_file_url", vm.VideoFileURL)
		setOptional(record.Fields, "description", vm.Description)
		if vm.Duration != nil && *vm.Duration > 0 {
			record.Fields["duration"] = *vm.Duration
		}
	}
	if _, ok := record.Fields["duration"]; !ok {
		if chunk.StartTime != nil && chunk.EndTime != nil {
			record.Fields["duration"] = *chunk.EndTime - *chunk.StartTime
		}
	}

	return record, nil
}

// ExtractTitle derives a title: explicit metadata, then a first content line
// of reasonable length, then a platform video ID, then the source filename,
// then a cue-based fallback.
func (b *VideoBuilder) ExtractTitle(chunk *models.Chunk, meta *models.Metadata) string {
	if meta != nil && meta.Video != nil && meta.Video.Title != nil {
		if title := strings.TrimSpace(*meta.Video.Title); title != "" {
			return title
		}
	}

	if line := firstLine(chunk.Content, 10, 100, nil); line != "" {
		return line
	}

	if m := youtubeIDPattern.FindStringSubmatch(chunk.Source); m != nil {
		return fmt.Sprintf("YouTube Video (%s)", m[1])
	}
	if m := vimeoIDPattern.FindStringSubmatch(chunk.Source); m != nil {
		return fmt.Sprintf("Vimeo Video (%s)", m[1])
	}

	if name := filenameFromSource(chunk.Source); name != "" {
		return titleCaseWords(name)
	}

	if cue := videoCue(chunk); cue != "" {
		return fmt.Sprintf("Video Transcript (%s)", cue)
	}
	return fmt.Sprintf("Video Transcript (Part %d)", chunk.ChunkIndex+1)
}

// videoCue returns the chunk's cue, synthesizing one from start/end times
// when the chunk carries times but no cue string.
func videoCue(chunk *models.Chunk) string {
	if chunk.VideoCue != nil && *chunk.VideoCue != "" {
		return *chunk.VideoCue
	}
	if chunk.StartTime != nil && chunk.EndTime != nil {
		return chunkers.FormatVTTTimestamp(*chunk.StartTime) + " --> " + chunkers.FormatVTTTimestamp(*chunk.EndTime)
	}
	return ""
}
