// Command jewelbill loads monthly jewelry billing workbooks into a database
// and exports the yearly report.
//
//	jewelbill [-config settings.yaml] [-lang en|hi] [-debug] <command> [flags]
//
// Commands: settings, test-connection, preview, ingest, export.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdout))
}
