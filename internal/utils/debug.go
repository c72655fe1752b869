package utils

import (
	"os"
	"strings"
)

// IsDebug reports whether the DEBUG environment variable is set to anything
// other than an empty string, "0" or "false".
func IsDebug() bool {
	v := strings.TrimSpace(os.Getenv("DEBUG"))
	return v != "" && v != "0" && !strings.EqualFold(v, "false")
}
