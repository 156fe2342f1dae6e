package main

import (
	"context"
	"os"

	"github.com/yigit/qnaboard/internal/pkg/logger"
	"github.com/yigit/qnaboard/internal/server"
)

// @title QnA Board API
// @version 1.0
// @description Course Q&A boards: questions by department and course, answers and recommendations

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Details are logged within the setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
