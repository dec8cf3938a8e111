package mediaHandler

import (
	mediaService "ProjectQuake/internal/api/media/service"
	"ProjectQuake/internal/middleware"
	"ProjectQuake/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MediaHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	mediaService mediaService.IMediaService
	utils        utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms mediaService.IMediaService,
	utils utils.IUtils,
) *MediaHandler {
	return &MediaHandler{
		mediaService: ms,
		log:          log,
		validator:    validator,
		middleware:   middleware,
		utils:        utils,
	}
}

func (h *MediaHandler) Start(srv fiber.Router) {
	srv.Post("/extract", h.Extract)
}
