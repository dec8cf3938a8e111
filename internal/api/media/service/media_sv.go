package mediaService

import (
	"fmt"

	"ProjectQuake/internal/api/media"
	"ProjectQuake/pkg/log"
	"ProjectQuake/pkg/video"
	"golang.org/x/net/context"
)

// frameMaxDim keeps sampled frames small before shipping them to the model.
const frameMaxDim = 512

// ExtractHighlights samples a few frames spread across the clip's timeline
// and asks the multimodal model to answer the prompt against them.
func (s *mediaService) ExtractHighlights(ctx context.Context, videoPath string, prompt string) (string, error) {
	frames, err := video.SampleFrames(videoPath, video.DefaultPositions, frameMaxDim)
	if err != nil {
		s.log.WithFields(log.Fields{
			"error": err.Error(),
			"path":  videoPath,
		}).Error("Frame sampling failed")
		return "", fmt.Errorf("%w: %v", media.ErrExtractFailed, err)
	}

	text, err := s.gemini.DescribeFrames(ctx, prompt, frames)
	if err != nil {
		s.log.WithFields(log.Fields{
			"error":  err.Error(),
			"frames": len(frames),
		}).Error("Multimodal extraction failed")
		return "", fmt.Errorf("%w: %v", media.ErrExtractFailed, err)
	}

	return text, nil
}
