package assessment

import "ProjectQuake/internal/entity"

type UpdateMagnitudeRequest struct {
	Magnitude *float64 `json:"magnitude"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type AnalyzeRequest struct {
	Image     string  `json:"image" validate:"required"`
	Magnitude float64 `json:"magnitude"`
}

type AnalyzeResponse struct {
	Detections []entity.Detection `json:"detections"`
}

// AnalyzeErrorResponse keeps the error shape clients already depend on:
// the message plus an empty detection list.
type AnalyzeErrorResponse struct {
	Error      string             `json:"error"`
	Detections []entity.Detection `json:"detections"`
}

type RecommendRequest struct {
	Detections []entity.Detection `json:"detections"`
}

type RecommendResponse struct {
	Advice string `json:"advice"`
}
