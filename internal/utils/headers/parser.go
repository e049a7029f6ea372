package headers

import (
	"fmt"
	"strings"
)

// Parse converts "Key: Value" strings into a header map. Keys are
// canonicalized and later duplicates win. Lines without a colon or with an
// empty key are rejected.
func Parse(lines []string) (map[string]string, error) {
	m := make(map[string]string, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected \"Key: Value\"", line)
		}
		if strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("invalid header %q: name contains whitespace", line)
		}
		m[canonical(name)] = strings.TrimSpace(value)
	}
	return m, nil
}

// canonical returns the MIME-style form of name, e.g. accept-language -> Accept-Language
func canonical(name string) string {
	parts := strings.Split(strings.ToLower(name), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}
