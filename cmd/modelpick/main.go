package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/modelpick/internal/profile"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Recommendations produced
	ExitInvalidProfile = 1 // The profile was rejected
	ExitError          = 2 // Configuration or runtime error
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, profile.ErrInvalidProfile):
		return ExitInvalidProfile
	default:
		return ExitError
	}
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
