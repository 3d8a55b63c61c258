package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/repository"
)

type SeedCmd struct {
	ConfigFile  string `default:"forkful.yaml"         help:"Path to config file"               short:"c"`
	Ingredients string `default:"data/ingredients.csv" help:"CSV of ingredient name,unit pairs"`
}

// defaultTags is the fixed tag catalog; tags are reference data and are
// not editable through the API.
var defaultTags = []models.Tag{
	{Name: "Breakfast", Slug: "breakfast"},
	{Name: "Lunch", Slug: "lunch"},
	{Name: "Dinner", Slug: "dinner"},
	{Name: "Dessert", Slug: "dessert"},
}

func (s *SeedCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // sync errors on exit are irrelevant

	conf, err := config.Load(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))
		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))
		return err
	}
	defer repo.Close()

	var errs error
	for _, tag := range defaultTags {
		result := repo.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag)
		errs = multierr.Append(errs, result.Error)
	}

	file, err := os.Open(s.Ingredients)
	if err != nil {
		return multierr.Append(errs, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(record) != 2 {
			errs = multierr.Append(errs, fmt.Errorf("row %d: want 2 columns, got %d", count+1, len(record)))
			continue
		}

		ingredient := models.Ingredient{Name: record[0], MeasurementUnit: record[1]}
		result := repo.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredient)
		if result.Error != nil {
			errs = multierr.Append(errs, result.Error)
			continue
		}
		count++
	}

	logger.Info("seeded catalog", zap.Int("ingredients", count), zap.Int("tags", len(defaultTags)))
	return errs
}
