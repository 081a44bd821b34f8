package cmd

import (
	"flag"

	"github.com/revue-hq/revue-backend/jobs"
)

// RunAudit correlates every identity against all ingested sources and
// persists the audit trail.
func RunAudit(args []string) error {
	flags := flag.NewFlagSet("audit", flag.ExitOnError)
	verbosity := flags.Int("v", 0, "verbosity level (0, 1, 2)")
	debug := flags.Bool("debug", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return err
	}

	config := loadAppConfig()
	app, err := setupApp(config, *verbosity, *debug)
	if err != nil {
		return err
	}
	defer app.teardown()

	return jobs.RunAudit(app.ctx, app.usecases)
}
