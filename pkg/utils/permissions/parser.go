// Package permissions parses and formats octal file modes
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultExecutablePerms is rwx for the owner, rx for everyone else.
const DefaultExecutablePerms os.FileMode = 0o755

// ParseOctal parses an octal permission string such as "755", "0755" or
// "0o755". An empty string yields def.
func ParseOctal(s string, def os.FileMode) (os.FileMode, error) {
	if s == "" {
		return def, nil
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")
	val, err := strconv.ParseUint(digits, 8, 32)
	if err != nil {
		return def, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	if val > 0o777 {
		return def, fmt.Errorf("invalid permission string %q: only permission bits are allowed", s)
	}
	return os.FileMode(val), nil
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(perm os.FileMode) string {
	return fmt.Sprintf("0%o", perm.Perm())
}

// IsExecutable checks if permissions include execute bit for owner
func IsExecutable(perm os.FileMode) bool {
	return perm&0o100 != 0
}
