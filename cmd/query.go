package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"

	"github.com/revue-hq/revue-backend/models"
	"github.com/revue-hq/revue-backend/repositories"
)

// RunUser prints one identity and its audit trail.
func RunUser(args []string) error {
	flags := flag.NewFlagSet("user", flag.ExitOnError)
	email := flags.String("email", "", "login of the identity to print")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.Wrap(models.BadParameterError, "-email is required for user")
	}

	config := loadAppConfig()
	app, err := setupApp(config, 0, false)
	if err != nil {
		return err
	}
	defer app.teardown()

	report, err := app.usecases.NewDiagnosticsUsecase().GetIdentityReport(app.ctx, *email)
	if err != nil {
		return err
	}

	identity := report.Identity
	fmt.Printf("Login:            %s\n", identity.Login)
	fmt.Printf("Display name:     %s\n", identity.DisplayName.String)
	fmt.Printf("Source of origin: %s\n", identity.SourceOfOrigin)
	if len(report.Entries) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}

	fmt.Printf("Needs review:     %t\n", report.Entries[0].NeedsReview)
	fmt.Printf("Admin privileges: %t\n", report.Entries[0].IsAdmin)
	fmt.Println()
	writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "SOURCE\tATTRIBUTE\tVALUE")
	for _, entry := range report.Entries {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", entry.SourceTable, entry.AttributeName, entry.AttributeValue)
	}
	return writer.Flush()
}

// RunSchema prints the tables and columns of the store.
func RunSchema(args []string) error {
	config := loadAppConfig()
	app, err := setupApp(config, 0, false)
	if err != nil {
		return err
	}
	defer app.teardown()

	tables, err := app.usecases.NewDiagnosticsUsecase().ListSchema(app.ctx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		fmt.Printf("%s: %s\n", table.Name, strings.Join(table.Columns, ", "))
	}
	return nil
}

// RunQuery executes a read-only diagnostic query and prints the result.
func RunQuery(args []string) error {
	flags := flag.NewFlagSet("query", flag.ExitOnError)
	rawSql := flags.String("q", "", "SELECT query to run")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *rawSql == "" {
		return errors.Wrap(models.BadParameterError, "-q is required for query")
	}

	config := loadAppConfig()
	app, err := setupApp(config, 0, false)
	if err != nil {
		return err
	}
	defer app.teardown()

	result, err := app.usecases.NewDiagnosticsUsecase().RunRawQuery(app.ctx, *rawSql)
	if err != nil {
		return err
	}
	printRawQueryResult(result)
	return nil
}

func printRawQueryResult(result repositories.RawQueryResult) {
	fmt.Println(strings.Join(result.Columns, " | "))
	for _, row := range result.Rows {
		fmt.Println(strings.Join(row, " | "))
	}
}
