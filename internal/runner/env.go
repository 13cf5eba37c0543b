package runner

import (
	"sort"
	"strings"
)

// Env is a private environment snapshot for one child process.
type Env map[string]string

// MergeEnv builds an environment from base ("KEY=VALUE" entries, as returned
// by os.Environ) with overrides applied on top.
func MergeEnv(base []string, overrides map[string]string) Env {
	env := make(Env, len(base)+len(overrides))
	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	for key, value := range overrides {
		env[key] = value
	}
	return env
}

// Has reports whether key is set, even to an empty value.
func (e Env) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// List returns the environment as sorted "KEY=VALUE" entries.
func (e Env) List() []string {
	out := make([]string, 0, len(e))
	for key, value := range e {
		out = append(out, key+"="+value)
	}
	sort.Strings(out)
	return out
}
