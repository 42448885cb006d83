// Package main provides the stackhouse CLI, the loader that turns a Stack
// Exchange XML dump into a validated SQLite warehouse.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/stackhouse/pkg/types"
)

// Exit codes. Validation failures are user-visible data problems; anything
// else is a system error.
const (
	exitSuccess    = 0
	exitValidation = 1
	exitSysError   = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, types.ErrValidationFailed) {
			os.Exit(exitValidation)
		}
		os.Exit(exitSysError)
	}
	os.Exit(exitSuccess)
}
