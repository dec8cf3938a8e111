package media

import (
	"net/http"

	"ProjectQuake/pkg/response"
)

var (
	ErrMissingVideo     = response.NewError(http.StatusBadRequest, "video file is required")
	ErrMissingPrompt    = response.NewError(http.StatusBadRequest, "prompt is required")
	ErrInvalidVideoFile = response.NewError(http.StatusBadRequest, "invalid video file")
	ErrExtractFailed    = response.NewError(http.StatusInternalServerError, "extract failed")
)
