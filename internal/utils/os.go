package utils

import (
	"os"
	"path/filepath"
)

// ExecutableName returns the base name of the running binary
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return "stampcam"
	}

	return filepath.Base(executable)
}
