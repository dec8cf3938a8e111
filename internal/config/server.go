package config

import (
	"fmt"
	"os"

	assessmentHandler "ProjectQuake/internal/api/assessment/handler"
	assessmentService "ProjectQuake/internal/api/assessment/service"
	mediaHandler "ProjectQuake/internal/api/media/handler"
	mediaService "ProjectQuake/internal/api/media/service"
	"ProjectQuake/internal/middleware"
	"ProjectQuake/internal/risk"
	"ProjectQuake/internal/session"
	"ProjectQuake/pkg/detector"
	"ProjectQuake/pkg/gemini"
	redisPkg "ProjectQuake/pkg/redis"
	"ProjectQuake/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	state         *session.State
	detectorConn  detector.IDetector
	geminiClient  gemini.IGemini
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithSessionState builds the shared state container, mirrored to Redis when
// REDIS_ADDRESS is configured.
func WithSessionState() ServerOption {
	return func(s *Server) error {
		if mirror := redisPkg.New(); mirror != nil {
			s.state = session.New(session.WithMirror(mirror))
		} else {
			s.state = session.New()
		}
		return nil
	}
}

func WithDetectorClient(client detector.IDetector) ServerOption {
	return func(s *Server) error {
		s.detectorConn = client
		return nil
	}
}

func WithGeminiClient(client gemini.IGemini) ServerOption {
	return func(s *Server) error {
		s.geminiClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	riskCfg := risk.FromEnv()

	// Assessment Domain
	assessmentServices := assessmentService.NewAssessmentService(s.log, s.detectorConn, s.geminiClient, s.state, riskCfg)
	assessmentHandlers := assessmentHandler.New(s.log, s.validator, s.middleware, assessmentServices, s.utils)

	// Media Domain
	mediaServices := mediaService.NewMediaService(s.log, s.geminiClient)
	mediaHandlers := mediaHandler.New(s.log, s.validator, s.middleware, mediaServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, assessmentHandlers, mediaHandlers)
}

func (s *Server) Run() error {
	// Routes stay at the root: clients depend on the exact paths.
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.detectorConn != nil {
			s.detectorConn.Close()
		}
		if s.geminiClient != nil {
			s.geminiClient.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
