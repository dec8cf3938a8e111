// Package video samples representative frames from an uploaded clip so they
// can be forwarded to a multimodal model. Frame extraction shells out to
// ffmpeg; downscaling happens in-process.
package video

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"os/exec"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultPositions are the normalized timeline positions sampled when the
// caller has no preference: early, middle, late.
var DefaultPositions = []float64{0.1, 0.5, 0.9}

// SampleFrames extracts one frame per normalized position in [0,1], downscales
// each so the longer edge is at most maxDim pixels, and returns them as JPEG.
// Individual frames that cannot be read are skipped; an error is returned only
// when the clip yields no frames at all.
func SampleFrames(path string, positions []float64, maxDim int) ([][]byte, error) {
	duration, err := probeDuration(path)
	if err != nil {
		return nil, err
	}

	frames := make([][]byte, 0, len(positions))
	for _, offset := range seekOffsets(duration, positions) {
		raw, err := extractFrame(path, offset)
		if err != nil {
			continue
		}

		frame, err := downscale(raw, maxDim)
		if err != nil {
			continue
		}
		frames = append(frames, frame)
	}

	if len(frames) == 0 {
		return nil, errors.New("no frames could be extracted from video")
	}
	return frames, nil
}

// seekOffsets converts normalized positions into seek timestamps, clamping
// out-of-range positions into the clip.
func seekOffsets(duration float64, positions []float64) []float64 {
	offsets := make([]float64, 0, len(positions))
	for _, p := range positions {
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		offsets = append(offsets, duration*p)
	}
	return offsets
}

func probeDuration(path string) (float64, error) {
	out, err := exec.Command(
		"ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse video duration: %w", err)
	}
	return duration, nil
}

func extractFrame(path string, offset float64) ([]byte, error) {
	var buf bytes.Buffer
	cmd := exec.Command(
		"ffmpeg", "-v", "error",
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2", "-c:v", "mjpeg",
		"pipe:1",
	)
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed at offset %.3f: %w", offset, err)
	}
	if buf.Len() == 0 {
		return nil, errors.New("no frame produced")
	}
	return buf.Bytes(), nil
}

func downscale(frame []byte, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, err
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
