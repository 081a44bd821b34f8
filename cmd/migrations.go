package cmd

import (
	"github.com/revue-hq/revue-backend/repositories"
	"github.com/revue-hq/revue-backend/utils"
)

func RunMigrations(args []string) error {
	config := loadAppConfig()
	logger := utils.NewLogger(config.loggingFormat)
	return repositories.RunMigrations(config.pgConfig, logger)
}
