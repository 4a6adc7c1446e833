package media

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info is the subset of ffprobe output shown next to a question.
type Info struct {
	Duration float64 // seconds
	Width    int
	Height   int
	Format   string
	Size     int64
}

// String renders a short description like "12.4s 1280x720 mp4".
func (i *Info) String() string {
	var parts []string
	if i.Duration > 0 {
		parts = append(parts, (time.Duration(i.Duration*float64(time.Second))).Round(100*time.Millisecond).String())
	}
	if i.Width > 0 && i.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", i.Width, i.Height))
	}
	if i.Format != "" && i.Format != "unknown" {
		parts = append(parts, i.Format)
	}
	return strings.Join(parts, " ")
}

// probeOutput is the part of ffprobe's JSON we read.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
		Format   string `json:"format_name"`
	} `json:"format"`
}

// Probe runs ffprobe on path. It requires ffprobe on PATH.
func Probe(path string) (*Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return parseProbe(out, st.Size())
}

// parseProbe decodes ffprobe JSON. fallbackSize is used when the container
// does not report one.
func parseProbe(out string, fallbackSize int64) (*Info, error) {
	var res probeOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}

	info := &Info{Format: "unknown", Size: fallbackSize}
	for _, s := range res.Streams {
		if s.CodecType == "video" {
			info.Width, info.Height = s.Width, s.Height
			break
		}
	}
	if d, err := strconv.ParseFloat(res.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	if n, err := strconv.ParseInt(res.Format.Size, 10, 64); err == nil {
		info.Size = n
	}
	if name, _, _ := strings.Cut(res.Format.Format, ","); name != "" {
		info.Format = name
	}
	return info, nil
}
