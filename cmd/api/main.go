package main

import (
	"flag"
	"os"

	_ "time/tzdata"

	"github.com/yigit/mentorhub/internal/bootstrap"
	"github.com/yigit/mentorhub/internal/pkg/logger"
	"github.com/yigit/mentorhub/internal/server"
)

// @title MentorHub API
// @version 1.0
// @description Student mentorship requests, mentor assignment and group meetings
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@mentorhub.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		// setup functions log the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
