package irisdb

import (
	"fmt"
	"regexp"
)

// configNamePattern allow-lists the only identifier this codebase ever
// inlines into SQL text: the server-side embedding configuration name.
// Everything else goes through bound parameters. This is a security
// invariant, not a style choice.
var configNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateConfigName checks an embedding configuration name against the
// allow-list pattern before it may be inlined into a statement.
func ValidateConfigName(name string) (string, error) {
	if !configNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid EMBEDDING config name %q: allowed characters are letters, digits, dot, underscore, dash", name)
	}
	return name, nil
}
