package host

import (
	"strings"

	"github.com/hashicorp/go-hclog"
)

// getenv retrieves an environment variable value from the environment list.
// The last assignment wins, as with the OS.
func getenv(env []string, key string, defaultVal string) string {
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return strings.TrimPrefix(env[i], prefix)
		}
	}
	return defaultVal
}

// childEnv returns a copy of env with the host and app paths appended.
func childEnv(env []string, hostPath, appPath string) []string {
	out := make([]string, 0, len(env)+2)
	out = append(out, env...)
	return append(out, EnvHostPath+"="+hostPath, EnvAppPath+"="+appPath)
}

// logEnvironmentTrace logs environment variables at trace level, redacting sensitive values.
func logEnvironmentTrace(env []string, logger hclog.Logger) {
	if !logger.IsTrace() {
		return
	}

	logger.Trace("🌍 Environment variables being passed to the application:")
	for _, e := range env {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if isSensitiveKey(key) {
			value = "***"
		}
		logger.Trace("  →", "key", key, "value", value)
	}
}

// isSensitiveKey checks if an environment variable key should be redacted in logs.
func isSensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range []string{"SECRET", "TOKEN", "PASSWORD", "API_KEY", "SSH_AUTH_SOCK"} {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
