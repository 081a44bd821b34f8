package cmd

import (
	"flag"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/jobs"
	"github.com/revue-hq/revue-backend/models"
)

// RunRollup regenerates the flattened report and writes it into the
// workbook's Rollup sheet.
func RunRollup(args []string) error {
	flags := flag.NewFlagSet("rollup", flag.ExitOnError)
	file := flags.String("f", "", "path to the workbook holding the Rollup sheet")
	verbosity := flags.Int("v", 0, "verbosity level (0, 1, 2)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.Wrap(models.BadParameterError, "-f is required for rollup")
	}

	config := loadAppConfig()
	app, err := setupApp(config, *verbosity, false)
	if err != nil {
		return err
	}
	defer app.teardown()

	return jobs.WriteRollup(app.ctx, app.usecases, *file)
}
