package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrParse indicates the environment could not be parsed.
	ErrParse = errors.New("config: failed to parse environment")

	// ErrUnknownProvider indicates the provider name is not supported.
	ErrUnknownProvider = errors.New("config: unknown provider")
)

// ValidationError maps a variable name to a readable message.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "config: validation error"
	}

	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e[k])
	}
	return fmt.Sprintf("config: %s", strings.Join(msgs, "; "))
}
