package chunkers

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/code-sleuth/vecbridge-go/internal/manager/models"
	"github.com/code-sleuth/vecbridge-go/pkg/util"
	"github.com/rs/zerolog"
)

var ErrMalformedVTT = errors.New("malformed WebVTT content: missing WEBVTT header or timestamp lines")

var (
	vttTimestampLine = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})\.(\d{3})`)
	vttCueSetting    = regexp.MustCompile(`\s*(?:align|position|size):\S+`)
	vttTag           = regexp.MustCompile(`<[^>]*>`)
	vttSpeakerLabel  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 .'_-]{0,40}:\s+`)
	vttBlankLine     = regexp.MustCompile(`\n\s*\n`)
)

// VTTSegmenter parses WebVTT cue blocks into timestamped text segments.
type VTTSegmenter struct {
	logger zerolog.Logger
}

// NewVTTSegmenter creates a WebVTT segmenter.
func NewVTTSegmenter() *VTTSegmenter {
	return &VTTSegmenter{logger: util.NewLogger(getLogLevelFromEnv())}
}

// Parse validates WebVTT structure and returns the cue segments ordered by
// start time. Individual malformed blocks are skipped; a missing WEBVTT
// header or a total absence of timestamp lines fails the parse.
func (v *VTTSegmenter) Parse(content string) ([]*models.VttSegment, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "WEBVTT") {
		v.logger.Error().Msg("content does not begin with a WEBVTT marker")
		return nil, ErrMalformedVTT
	}
	if !vttTimestampLine.MatchString(trimmed) {
		v.logger.Error().Msg("content contains no timestamp lines")
		return nil, ErrMalformedVTT
	}

	var segments []*models.VttSegment
	for _, block := range vttBlankLine.Split(trimmed, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		upper := strings.ToUpper(block)
		if strings.HasPrefix(upper, "WEBVTT") || strings.HasPrefix(upper, "NOTE") {
			continue
		}

		segment := v.parseBlock(block)
		if segment == nil {
			v.logger.Debug().Str("block", block).Msg("skipping malformed cue block")
			continue
		}
		segments = append(segments, segment)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime < segments[j].StartTime
	})
	return segments, nil
}

// parseBlock parses one blank-line-delimited cue block. A leading cue
// identifier is present when the first line is not itself a timestamp line.
func (v *VTTSegmenter) parseBlock(block string) *models.VttSegment {
	lines := strings.Split(block, "\n")

	var cueID *string
	tsIdx := 0
	if !vttTimestampLine.MatchString(lines[0]) {
		if len(lines) < 2 {
			return nil
		}
		id := strings.TrimSpace(lines[0])
		if id != "" {
			cueID = &id
		}
		tsIdx = 1
	}

	match := vttTimestampLine.FindStringSubmatch(lines[tsIdx])
	if match == nil {
		return nil
	}

	start := timestampToSeconds(match[1], match[2], match[3], match[4])
	end := timestampToSeconds(match[5], match[6], match[7], match[8])
	if end <= start {
		return nil
	}

	text := cleanCueText(strings.Join(lines[tsIdx+1:], " "))
	if text == "" {
		return nil
	}

	return &models.VttSegment{
		CueID:     cueID,
		StartTime: start,
		EndTime:   end,
		Text:      text,
		Duration:  end - start,
	}
}

// cleanCueText strips cue-setting attributes, HTML-like tags and a leading
// speaker label, then collapses whitespace.
func cleanCueText(text string) string {
	text = vttCueSetting.ReplaceAllString(text, "")
	text = vttTag.ReplaceAllString(text, "")
	text = vttSpeakerLabel.ReplaceAllString(text, "")
	text = horizontalWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func timestampToSeconds(h, m, s, ms string) float64 {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	millis, _ := strconv.Atoi(ms)
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}

// FormatVTTTimestamp renders seconds as an HH:MM:SS.mmm WebVTT timestamp.
func FormatVTTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	millis := int(math.Round((seconds - float64(whole)) * 1000))
	if millis >= 1000 {
		whole++
		millis -= 1000
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", whole/3600, (whole%3600)/60, whole%60, millis)
}
