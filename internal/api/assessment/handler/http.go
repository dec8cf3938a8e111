package assessmentHandler

import (
	assessmentService "ProjectQuake/internal/api/assessment/service"
	"ProjectQuake/internal/middleware"
	"ProjectQuake/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AssessmentHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	assessmentService assessmentService.IAssessmentService
	utils             utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	as assessmentService.IAssessmentService,
	utils utils.IUtils,
) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: as,
		log:               log,
		validator:         validator,
		middleware:        middleware,
		utils:             utils,
	}
}

func (h *AssessmentHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	srv.Get("/state", h.GetState)
	srv.Post("/update_magnitude", h.UpdateMagnitude)
	srv.Post("/analyze", h.Analyze)
	srv.Post("/recommend", h.Recommend)

	live := srv.Group("/live")
	live.Use("/ws", wsMiddleware)
	live.Get("/ws", websocket.New(h.handleLiveWebSocket))
}
