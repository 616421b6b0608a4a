// Package cli provides CLI infrastructure for binder.
package cli

import (
	"fmt"
	"strings"
)

// MatchCommand finds a unique command from a prefix.
// Returns the matched command or an error if ambiguous or no match.
func MatchCommand(prefix string, commands []string) (string, error) {
	prefix = strings.ToLower(prefix)

	for _, cmd := range commands {
		if strings.ToLower(cmd) == prefix {
			return cmd, nil
		}
	}

	var matches []string
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd), prefix) {
			matches = append(matches, cmd)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown command %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous command %q matches: %s", prefix, strings.Join(matches, ", "))
	}
}

// ParseCommandLine splits an interactive input line into a command, resolved
// by prefix against commands, and its remaining whitespace-separated words.
// A blank line returns an empty command and no error.
func ParseCommandLine(line string, commands []string) (string, []string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, nil
	}

	cmd, err := MatchCommand(fields[0], commands)
	if err != nil {
		return "", nil, err
	}
	return cmd, fields[1:], nil
}
