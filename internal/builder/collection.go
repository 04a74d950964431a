package builder

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseCollection reads "Name:count" pairs separated by commas or newlines,
// e.g. "Nami:2, Sanji:4". A name without a count means one copy. Names that
// differ only in case are the same card.
func ParseCollection(s string) (Collection, error) {
	owned := make(Collection)
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		name, count := f, 1
		if i := strings.LastIndex(f, ":"); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(f[i+1:]))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("collection entry %q: bad count", f)
			}
			name, count = strings.TrimSpace(f[:i]), n
		}
		if name == "" {
			return nil, fmt.Errorf("collection entry %q: missing name", f)
		}
		owned[strings.ToLower(name)] += count
	}
	return owned, nil
}

// LoadCollection reads a YAML mapping of card name to owned copies.
func LoadCollection(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse collection YAML: %w", err)
	}
	owned := make(Collection, len(raw))
	for name, n := range raw {
		if n < 0 {
			return nil, fmt.Errorf("collection: negative count %d for %q", n, name)
		}
		owned[strings.ToLower(strings.TrimSpace(name))] += n
	}
	return owned, nil
}
