// Package env handles the environment variables passed to task scripts.
package env

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envKeyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseSpecs parses KEY=VALUE specs. A spec with only the key takes the
// value from the current environment.
func ParseSpecs(specs []string) (map[string]string, error) {
	env := make(map[string]string, len(specs))

	for _, spec := range specs {
		if spec == "" {
			return nil, fmt.Errorf("environment variable spec cannot be empty")
		}

		key, value, ok := strings.Cut(spec, "=")
		if !isValidKey(key) {
			return nil, fmt.Errorf("invalid environment variable key %q", key)
		}

		if !ok {
			value, ok = os.LookupEnv(key)
			if !ok {
				return nil, fmt.Errorf("environment variable %q is not set", key)
			}
		}

		env[key] = value
	}

	return env, nil
}

// Merge returns a new map with all the variables, later maps win.
func Merge(envs ...map[string]string) map[string]string {
	merged := map[string]string{}
	for _, env := range envs {
		for k, v := range env {
			merged[k] = v
		}
	}

	return merged
}

// List returns the variables as sorted KEY=VALUE entries.
func List(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)

	return list
}

func isValidKey(k string) bool {
	return envKeyRegexp.MatchString(k)
}
