package command

import (
	"strings"
	"unicode/utf8"
)

// ExtractName returns the command name of a message starting with prefix. The first
// whitespace-delimited token is taken and exactly one leading rune is stripped from it, so
// multi-byte names survive intact.
func ExtractName(prefix, text string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", false
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}

	token := fields[0]
	_, size := utf8.DecodeRuneInString(token)
	name := token[size:]
	if name == "" {
		return "", false
	}

	return name, true
}

// ParseArgs returns everything after the first word, with runs of whitespace collapsed.
func ParseArgs(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}

	return strings.Join(fields[1:], " ")
}
