package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitNoMatch = 1 // recommend found no models for the request
	ExitError   = 2 // configuration or runtime error
)

// @title InfraLens API
// @version 0.1.0
// @description Recommends open ML models for a task and a hardware budget.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var noMatch *NoMatchError
		if errors.As(err, &noMatch) {
			os.Exit(ExitNoMatch)
		}
		os.Exit(ExitError)
	}
}
