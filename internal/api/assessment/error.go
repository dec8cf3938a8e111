package assessment

import (
	"net/http"

	"ProjectQuake/pkg/response"
)

var (
	ErrBadRequest          = response.NewError(http.StatusBadRequest, "bad request")
	ErrInvalidImagePayload = response.NewError(http.StatusBadRequest, "invalid image payload")
	ErrUndecodableImage    = response.NewError(http.StatusBadRequest, "image could not be decoded")
	ErrDetectorUnavailable = response.NewError(http.StatusBadGateway, "object tracking service unavailable")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
)
