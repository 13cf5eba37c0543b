package cli

import "strings"

// ParseEnvPairs parses "KEY=value,KEY2=value2". Keys and values are trimmed.
// Tokens without '=' or with an empty key are returned in invalid and
// otherwise ignored.
func ParseEnvPairs(s string) (map[string]string, []string) {
	env := make(map[string]string)
	if s == "" {
		return env, nil
	}

	var invalid []string
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			invalid = append(invalid, pair)
			continue
		}
		env[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return env, invalid
}
