package builders

import (
	"testing"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

func videoChunk(content, source string, index int, start, end float64) *models.Chunk {
	cue := "00:00:00.000 --> 00:01:00.000"
	count := 3
	return &models.Chunk{
		Content:      content,
		Source:       source,
		ChunkIndex:   index,
		StartTime:    &start,
		EndTime:      &end,
		VideoCue:     &cue,
		SegmentCount: &count,
	}
}

func TestVideoBuilderBuild(t *testing.T) {
	builder := NewVideoBuilder(testBuildContext())
	chunk := videoChunk("welcome to the talk everyone", "https://youtube.com/watch?v=dQw4w9WgXcQ", 0, 0, 60)
	meta := &models.Metadata{
		Video: &models.VideoMetadata{
			Title:   strPtr("Conference Keynote"),
			Speaker: strPtr("Jane Doe"),
		},
	}

	record, err := builder.Build(chunk, "talks", meta)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if record.Kind != models.KindVideo {
		t.Errorf("Expected video kind, got %s", record.Kind)
	}
	if record.Fields["video_title"] != "Conference Keynote" {
		t.Errorf("Expected metadata title, got %v", record.Fields["video_title"])
	}
	if record.Fields["transcript_content"] != chunk.Content {
		t.Errorf("Expected transcript content, got %v", record.Fields["transcript_content"])
	}
	if record.Fields["url_source"] != chunk.Source {
		t.Errorf("Expected url_source, got %v", record.Fields["url_source"])
	}
	if record.Fields["video_cue"] != "00:00:00.000 --> 00:01:00.000" {
		t.Errorf("Expected video cue preserved, got %v", record.Fields["video_cue"])
	}
	if record.Fields["speaker"] != "Jane Doe" {
		t.Errorf("Expected speaker from metadata, got %v", record.Fields["speaker"])
	}
	if record.Fields["duration"] != 60.0 {
		t.Errorf("Expected duration derived from chunk times, got %v", record.Fields["duration"])
	}
}

func TestVideoBuilderValidate(t *testing.T) {
	builder := NewVideoBuilder(testBuildContext())

	tests := []struct {
		name        string
		chunk       *models.Chunk
		expectField string
	}{
		{
			name:        "empty content",
			chunk:       textChunk("   ", "https://example.com/video", 0),
			expectField: "transcript_content",
		},
		{
			name:        "non-url source",
			chunk:       textChunk("transcript text", "local/video.mp4", 0),
			expectField: "url_source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := builder.Validate(tt.chunk, nil)
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.expectField {
				t.Errorf("Expected field %s, got %s", tt.expectField, vErr.Field)
			}
		})
	}

	if err := builder.Validate(textChunk("transcript text", "https://example.com/v", 0), nil); err != nil {
		t.Errorf("Expected valid chunk to pass, got %v", err)
	}
}

func TestVideoBuilderExtractTitle(t *testing.T) {
	builder := NewVideoBuilder(testBuildContext())

	tests := []struct {
		name     string
		chunk    *models.Chunk
		meta     *models.Metadata
		expected string
	}{
		{
			name:     "metadata title wins",
			chunk:    videoChunk("some transcript", "https://example.com/v", 0, 0, 10),
			meta:     &models.Metadata{Video: &models.VideoMetadata{Title: strPtr("Explicit Title")}},
			expected: "Explicit Title",
		},
		{
			name:     "first reasonable content line",
			chunk:    videoChunk("Introduction to Distributed Systems\nmore text follows", "https://example.com/v", 0, 0, 10),
			expected: "Introduction to Distributed Systems",
		},
		{
			name:     "youtube id fallback",
			chunk:    videoChunk("ok", "https://youtube.com/watch?v=dQw4w9WgXcQ", 0, 0, 10),
			expected: "YouTube Video (dQw4w9WgXcQ)",
		},
		{
			name:     "youtu.be short link",
			chunk:    videoChunk("ok", "https://youtu.be/dQw4w9WgXcQ", 0, 0, 10),
			expected: "YouTube Video (dQw4w9WgXcQ)",
		},
		{
			name:     "vimeo id fallback",
			chunk:    videoChunk("ok", "https://vimeo.com/123456789", 0, 0, 10),
			expected: "Vimeo Video (123456789)",
		},
		{
			name:     "filename fallback",
			chunk:    videoChunk("ok", "https://example.com/media/team-standup.mp4", 0, 0, 10),
			expected: "Team Standup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := builder.ExtractTitle(tt.chunk, tt.meta); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestVideoBuilderCueFallbackTitle(t *testing.T) {
	builder := NewVideoBuilder(testBuildContext())

	// No usable line, no platform ID, no filename: fall back to the cue.
	start, end := 30.0, 90.0
	cue := "00:00:30.000 --> 00:01:30.000"
	chunk := &models.Chunk{
		Content:    "ok",
		Source:     "https://example.com/",
		ChunkIndex: 1,
		StartTime:  &start,
		EndTime:    &end,
		VideoCue:   &cue,
	}

	expected := "Video Transcript (00:00:30.000 --> 00:01:30.000)"
	if got := builder.ExtractTitle(chunk, nil); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	chunk.VideoCue = nil
	chunk.StartTime = nil
	chunk.EndTime = nil
	if got := builder.ExtractTitle(chunk, nil); got != "Video Transcript (Part 2)" {
		t.Errorf("Expected part-numbered fallback, got %q", got)
	}
}
