package utils

import (
	"fmt"
	"log"
)

// CheckFatal logs err together with the step that failed and exits non-zero
func CheckFatal(err error, step string) {
	if err != nil {
		log.Fatalf("%s: %v", step, err)
	}
}

// CheckWarn logs a warning and reports whether err was set
func CheckWarn(err error, step string) bool {
	if err != nil {
		log.Printf("Warning: %s: %v", step, err)
		return true
	}
	return false
}

// WrapPathError annotates err with the operation and the file it concerns
func WrapPathError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}
