// Package media reads playback metadata from uploaded video files.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size,omitempty"`
	BitRate    string `json:"bit_rate,omitempty"`
	FormatName string `json:"format_name"`
}

// Prober inspects a media source, a local path or an http(s) URL.
type Prober interface {
	Inspect(ctx context.Context, source string) (Result, error)
}

// FFprobe runs the ffprobe binary.
type FFprobe struct {
	Binary  string
	Timeout time.Duration
}

// DefaultProber is used by request handlers. Tests swap it for a fake.
var DefaultProber Prober = FFprobe{}

// Configure points DefaultProber at binary with a per-call timeout.
func Configure(binary string, timeout time.Duration) {
	DefaultProber = FFprobe{Binary: binary, Timeout: timeout}
}

// Inspect executes ffprobe against source and decodes the JSON response.
func (p FFprobe) Inspect(ctx context.Context, source string) (Result, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return Result{}, errors.New("ffprobe inspect: empty source")
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", source)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes ffprobe's JSON output.
func Parse(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Summary re-encodes the fields kept alongside a video row.
func (r Result) Summary() []byte {
	out, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return out
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds. It falls back to
// the longest stream duration, returns 0 when nothing is reported and NaN
// when the reported value is not a number.
func (r Result) DurationSeconds() float64 {
	if d := parseFloat(r.Format.Duration); d != 0 {
		return d
	}
	longest := 0.0
	for _, stream := range r.Streams {
		d := parseFloat(stream.Duration)
		if math.IsNaN(d) {
			return d
		}
		if d > longest {
			longest = d
		}
	}
	return longest
}

// ValidDuration reports whether d can be stored as a playback duration.
func ValidDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "N/A" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
