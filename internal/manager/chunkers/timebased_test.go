package chunkers

import (
	"testing"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
)

func newTestTimeChunker(t *testing.T, duration float64, maxChars int, overlap float64) *TimeChunker {
	t.Helper()
	cfg := models.DefaultConfig()
	cfg.ChunkDurationSeconds = duration
	cfg.MaxChunkChars = maxChars
	cfg.OverlapDurationSeconds = overlap

	chunker, err := NewTimeChunker(cfg)
	if err != nil {
		t.Fatalf("Failed to create time chunker: %v", err)
	}
	return chunker
}

func seg(start, end float64, text string) *models.VttSegment {
	return &models.VttSegment{
		StartTime: start,
		EndTime:   end,
		Text:      text,
		Duration:  end - start,
	}
}

func TestTimeChunkerEmpty(t *testing.T) {
	chunker := newTestTimeChunker(t, 10, 1000, 2)

	chunks := chunker.ChunkSegments(nil, "test://video")
	if len(chunks) != 0 {
		t.Errorf("Expected 0 chunks for no segments, got %d", len(chunks))
	}
}

func TestTimeChunkerSingleSegment(t *testing.T) {
	chunker := newTestTimeChunker(t, 10, 1000, 2)

	chunks := chunker.ChunkSegments([]*models.VttSegment{seg(0, 5, "hello there")}, "test://video")
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.Content != "hello there" {
		t.Errorf("Expected content 'hello there', got %q", chunk.Content)
	}
	if chunk.StartTime == nil || *chunk.StartTime != 0 {
		t.Errorf("Expected start time 0, got %v", chunk.StartTime)
	}
	if chunk.EndTime == nil || *chunk.EndTime != 5 {
		t.Errorf("Expected end time 5, got %v", chunk.EndTime)
	}
	if chunk.VideoCue == nil || *chunk.VideoCue != "00:00:00.000 --> 00:00:05.000" {
		t.Errorf("Expected cue '00:00:00.000 --> 00:00:05.000', got %v", chunk.VideoCue)
	}
	if chunk.SegmentCount == nil || *chunk.SegmentCount != 1 {
		t.Errorf("Expected segment count 1, got %v", chunk.SegmentCount)
	}
}

func TestTimeChunkerDurationBudget(t *testing.T) {
	chunker := newTestTimeChunker(t, 10, 1000, 2)

	segments := []*models.VttSegment{
		seg(0, 6, "one"),
		seg(6, 12, "two"), // elapsed 12 exceeds the 10s budget
		seg(12, 15, "three"),
	}
	chunks := chunker.ChunkSegments(segments, "test://video")
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}

	if chunks[0].Content != "one two" {
		t.Errorf("Expected first chunk 'one two', got %q", chunks[0].Content)
	}
	// No segment starts within the 2s overlap window before 12s, so the
	// second chunk carries only the remaining segment.
	if chunks[1].Content != "three" {
		t.Errorf("Expected second chunk 'three', got %q", chunks[1].Content)
	}
	if chunks[1].ChunkIndex != 1 {
		t.Errorf("Expected chunk index 1, got %d", chunks[1].ChunkIndex)
	}
}

func TestTimeChunkerOverlapSeed(t *testing.T) {
	chunker := newTestTimeChunker(t, 10, 1000, 2)

	segments := []*models.VttSegment{
		seg(0, 6, "one"),
		seg(11, 12, "two"), // starts inside the overlap window of the cut at 12s
		seg(12, 15, "three"),
	}
	chunks := chunker.ChunkSegments(segments, "test://video")
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}

	if chunks[0].Content != "one two" {
		t.Errorf("Expected first chunk 'one two', got %q", chunks[0].Content)
	}
	if chunks[1].Content != "two three" {
		t.Errorf("Expected overlap segment carried into second chunk, got %q", chunks[1].Content)
	}
	if chunks[1].StartTime == nil || *chunks[1].StartTime != 11 {
		t.Errorf("Expected second chunk to start at 11, got %v", chunks[1].StartTime)
	}
	if chunks[1].SegmentCount == nil || *chunks[1].SegmentCount != 2 {
		t.Errorf("Expected 2 segments in second chunk, got %v", chunks[1].SegmentCount)
	}
}

func TestTimeChunkerNoOverlapOnlyTail(t *testing.T) {
	chunker := newTestTimeChunker(t, 10, 1000, 2)

	// The second segment seeds the overlap buffer after the cut, but with no
	// further segments it must not become a chunk of its own.
	segments := []*models.VttSegment{
		seg(0, 6, "one"),
		seg(11, 12, "two"),
	}
	chunks := chunker.ChunkSegments(segments, "test://video")
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "one two" {
		t.Errorf("Expected 'one two', got %q", chunks[0].Content)
	}
}

func TestTimeChunkerCharBudget(t *testing.T) {
	chunker := newTestTimeChunker(t, 1000, 10, 0)

	segments := []*models.VttSegment{
		seg(0, 1, "aaaaaa"),
		seg(1, 2, "bbbbbb"), // 6+1+6+1 exceeds the 10 char budget
		seg(2, 3, "cc"),
	}
	chunks := chunker.ChunkSegments(segments, "test://video")
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "aaaaaa bbbbbb" {
		t.Errorf("Expected first chunk 'aaaaaa bbbbbb', got %q", chunks[0].Content)
	}
	if chunks[1].Content != "cc" {
		t.Errorf("Expected second chunk 'cc', got %q", chunks[1].Content)
	}
}

func BenchmarkTimeChunkerChunkSegments(b *testing.B) {
	cfg := models.DefaultConfig()
	chunker, err := NewTimeChunker(cfg)
	if err != nil {
		b.Fatalf("Failed to create time chunker: %v", err)
	}

	segments := make([]*models.VttSegment, 200)
	for i := range segments {
		start := float64(i) * 4
		segments[i] = seg(start, start+4, "a transcript segment with a few words in it")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chunker.ChunkSegments(segments, "bench://video")
	}
}
