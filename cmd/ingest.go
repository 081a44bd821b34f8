package cmd

import (
	"flag"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/jobs"
	"github.com/revue-hq/revue-backend/models"
)

// RunIngest ingests one workbook into the store: source catalog, per-source
// data tables and the identity registry.
func RunIngest(args []string) error {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	file := flags.String("f", "", "path to the workbook to ingest")
	verbosity := flags.Int("v", 0, "verbosity level (0, 1, 2)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.Wrap(models.BadParameterError, "-f is required for ingest")
	}

	config := loadAppConfig()
	app, err := setupApp(config, *verbosity, false)
	if err != nil {
		return err
	}
	defer app.teardown()

	return jobs.IngestWorkbook(app.ctx, app.usecases, *file)
}
