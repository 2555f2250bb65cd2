package utils

import "strings"

// MaskSensitiveString keeps the first and last four characters of a secret
// and replaces the rest with asterisks. Short values are fully masked.
func MaskSensitiveString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

var sensitiveKeyParts = []string{"token", "secret", "password", "api_key", "apikey", "credential", "private_key"}

// IsSensitiveKey reports whether a config key name looks like it holds a secret.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}

// MaskConfig returns a shallow copy of cfg with secret-looking string values
// masked. Nested maps are masked recursively.
func MaskConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		switch val := v.(type) {
		case string:
			if IsSensitiveKey(k) {
				out[k] = MaskSensitiveString(val)
			} else {
				out[k] = val
			}
		case map[string]any:
			out[k] = MaskConfig(val)
		default:
			out[k] = v
		}
	}
	return out
}
