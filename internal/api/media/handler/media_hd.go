package mediaHandler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ProjectQuake/internal/api/media"
	contextPkg "ProjectQuake/pkg/context"
	"ProjectQuake/pkg/handlerUtil"
	"ProjectQuake/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// Extract accepts an uploaded clip plus a prompt and returns the multimodal
// model's answer. The upload is spooled to a temp file that is removed on
// every exit path.
func (h *MediaHandler) Extract(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing extract request")

	file, err := ctx.FormFile("video")
	if err != nil {
		return errHandler.Handle(ctx, requestID, media.ErrMissingVideo, ctx.Path(), "read_video_form_file")
	}

	prompt := ctx.FormValue("prompt")
	if prompt == "" {
		return errHandler.Handle(ctx, requestID, media.ErrMissingPrompt, ctx.Path(), "read_prompt")
	}

	if err := h.utils.ValidateVideoFile(file); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected uploaded video")
		return errHandler.Handle(ctx, requestID, media.ErrInvalidVideoFile, ctx.Path(), "validate_video_file")
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("quakeproof-%s%s", requestID, filepath.Ext(file.Filename)))
	if err := ctx.SaveFile(file, tmpPath); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "save_video_temp_file")
	}
	defer os.Remove(tmpPath)

	text, err := h.mediaService.ExtractHighlights(c, tmpPath, prompt)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "extract_highlights")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"file_name":  file.Filename,
			"file_size":  file.Size,
		}).Info("Video extraction successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, media.ExtractResponse{
			Text: text,
		})
	}
}
