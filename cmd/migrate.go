package cmd

import (
	"go.uber.org/zap"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
)

type MigrateCmd struct {
	ConfigFile string `default:"forkful.yaml" help:"Path to config file" short:"c"`
	Dir        string `default:"migrations"   help:"Directory containing .sql migration files"`
}

func (m *MigrateCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // sync errors on exit are irrelevant

	conf, err := config.Load(m.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))
		return err
	}

	return database.RunMigrations(conf.DB, m.Dir, logger)
}
