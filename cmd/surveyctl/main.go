// Package main provides the surveyctl CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/ashureev/odorcolor/internal/cli"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := app.RootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
