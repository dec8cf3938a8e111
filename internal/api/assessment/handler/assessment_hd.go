package assessmentHandler

import (
	"errors"
	"math"
	"time"

	"ProjectQuake/internal/api/assessment"
	"ProjectQuake/internal/entity"
	"ProjectQuake/internal/session"
	contextPkg "ProjectQuake/pkg/context"
	"ProjectQuake/pkg/handlerUtil"
	"ProjectQuake/pkg/log"
	"ProjectQuake/pkg/response"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AssessmentHandler) GetState(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(h.assessmentService.State())
}

// UpdateMagnitude sets the simulated shaking magnitude. An absent or invalid
// value falls back to the default rather than failing the request.
func (h *AssessmentHandler) UpdateMagnitude(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	magnitude := session.DefaultMagnitude

	var req assessment.UpdateMagnitudeRequest
	if err := ctx.BodyParser(&req); err == nil && req.Magnitude != nil {
		if m := *req.Magnitude; m > 0 && !math.IsNaN(m) && !math.IsInf(m, 0) {
			magnitude = m
		}
	}

	h.assessmentService.UpdateMagnitude(magnitude)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"magnitude":  magnitude,
	}).Info("Magnitude updated")

	return ctx.Status(fiber.StatusOK).JSON(assessment.StatusResponse{Status: "ok"})
}

func (h *AssessmentHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing analyze request")

	var req assessment.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return h.analyzeError(ctx, requestID, assessment.ErrInvalidImagePayload)
	}

	if err := h.validator.Struct(req); err != nil {
		return h.analyzeError(ctx, requestID, assessment.ErrInvalidImagePayload)
	}

	frame, err := h.utils.DecodeDataURL(req.Image)
	if err != nil {
		return h.analyzeError(ctx, requestID, assessment.ErrInvalidImagePayload)
	}

	detections, err := h.assessmentService.AnalyzeFrame(c, frame, req.Magnitude)
	if err != nil {
		return h.analyzeError(ctx, requestID, err)
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"detections": len(detections),
		}).Info("Frame analysis successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assessment.AnalyzeResponse{
			Detections: detections,
		})
	}
}

// analyzeError preserves the analyze error contract: the message plus an
// empty detection list, and no session state mutation (the service never got
// far enough to write).
func (h *AssessmentHandler) analyzeError(ctx *fiber.Ctx, requestID string, err error) error {
	status := fiber.StatusInternalServerError
	var respErr *response.Error
	if errors.As(err, &respErr) {
		status = respErr.Code
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"error":      err.Error(),
		"status":     status,
	}).Error("Frame analysis failed")

	return ctx.Status(status).JSON(assessment.AnalyzeErrorResponse{
		Error:      err.Error(),
		Detections: []entity.Detection{},
	})
}

func (h *AssessmentHandler) Recommend(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 20*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req assessment.RecommendRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, assessment.ErrBadRequest, ctx.Path(), "parse_request_body")
	}

	advice, err := h.assessmentService.Recommend(c, req.Detections)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "recommend")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Info("Advisory generated")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assessment.RecommendResponse{
			Advice: advice,
		})
	}
}
