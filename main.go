package main

import (
	"fmt"
	"os"

	"github.com/revue-hq/revue-backend/cmd"
)

const usage = `Usage: revue-backend <command> [options]

Commands:
  ingest      ingest a workbook of service exports (-f file, -v level)
  audit       run the access review over all ingested sources (-v level, -debug)
  rollup      write the flattened report into the workbook (-f file, -v level)
  user        print one identity and its audit trail (-email login)
  schema      print the tables and columns of the store
  query       run a read-only SQL query (-q query)
  migrations  apply database migrations
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "ingest":
		err = cmd.RunIngest(args)
	case "audit":
		err = cmd.RunAudit(args)
	case "rollup":
		err = cmd.RunRollup(args)
	case "user":
		err = cmd.RunUser(args)
	case "schema":
		err = cmd.RunSchema(args)
	case "query":
		err = cmd.RunQuery(args)
	case "migrations":
		err = cmd.RunMigrations(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}
