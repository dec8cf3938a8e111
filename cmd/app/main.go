package main

import (
	"os"
	"os/signal"
	"syscall"

	"ProjectQuake/internal/config"
	"ProjectQuake/pkg/detector"
	"ProjectQuake/pkg/gemini"
	"ProjectQuake/pkg/log"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	trackerClient := detector.NewTrackerClient()

	geminiClient, err := gemini.NewGeminiClient()
	if err != nil {
		logger.Fatalf("Failed to create Gemini client: %v", err)
	}

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMiddleware(),
		config.WithSessionState(),
		config.WithDetectorClient(trackerClient),
		config.WithGeminiClient(geminiClient),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	trackerClient.Close()
	geminiClient.Close()
}
