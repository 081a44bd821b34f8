package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/revue-hq/revue-backend/infra"
	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/utils"
)

type AppConfig struct {
	env           string
	appName       string
	loggingFormat string
	sentryDsn     string
	rulesFile     string
	pgConfig      infra.PgConfig
}

func loadAppConfig() AppConfig {
	return AppConfig{
		env:           utils.GetEnv("ENV", "development"),
		appName:       "revue-backend",
		loggingFormat: utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:     utils.GetEnv("SENTRY_DSN", ""),
		rulesFile:     utils.GetEnv("REVIEW_RULES_FILE", "review_rules.yaml"),
		pgConfig: infra.PgConfig{
			ConnectionString: utils.GetEnv("PG_CONNECTION_STRING", ""),
			Database:         utils.GetEnv("PG_DATABASE", "revue"),
			Hostname:         utils.GetEnv("PG_HOSTNAME", "localhost"),
			Password:         utils.GetEnv("PG_PASSWORD", ""),
			Port:             utils.GetEnv("PG_PORT", "5432"),
			User:             utils.GetEnv("PG_USER", "postgres"),
			SslMode:          utils.GetEnv("PG_SSL_MODE", "prefer"),
		},
	}
}

// loadReviewRules reads and validates the review-rule document. Any problem
// is fatal to the run: correlating with partial or defaulted rules would
// produce silently wrong review decisions.
func loadReviewRules(path string) (models.ReviewRules, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.ReviewRules{}, errors.Wrapf(err, "cannot read review rules file %s", path)
	}

	rules := models.ReviewRules{
		ReviewThreshold: models.DefaultReviewThreshold,
	}
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return models.ReviewRules{}, errors.Wrapf(err, "cannot parse review rules file %s", path)
	}
	if err := rules.Validate(); err != nil {
		return models.ReviewRules{}, errors.Wrapf(err, "invalid review rules in %s", path)
	}
	return rules, nil
}
