package mediaService

import (
	"ProjectQuake/pkg/gemini"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IMediaService interface {
	ExtractHighlights(ctx context.Context, videoPath string, prompt string) (string, error)
}

type mediaService struct {
	log    *logrus.Logger
	gemini gemini.IGemini
}

func NewMediaService(log *logrus.Logger, gemini gemini.IGemini) IMediaService {
	return &mediaService{
		log:    log,
		gemini: gemini,
	}
}
