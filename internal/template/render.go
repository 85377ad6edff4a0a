// Package template implements the literal placeholder substitution used for
// the Teams app manifest. Placeholders have the form {{NAME}} and are
// replaced verbatim, with no escaping and no nested expansion. Rendering
// fails when the output still contains a placeholder, so a template that
// drifts from the value map can never produce a broken package silently.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

// Render substitutes every {{NAME}} placeholder in doc with values[NAME].
// It returns an error naming the unresolved placeholders if any remain.
func Render(doc string, values map[string]string) (string, error) {
	out := placeholderPattern.ReplaceAllStringFunc(doc, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})

	if leftover := Placeholders(out); len(leftover) > 0 {
		return "", fmt.Errorf("unresolved placeholders: %s", strings.Join(leftover, ", "))
	}
	return out, nil
}

// Placeholders returns the sorted, deduplicated placeholder names present in doc.
func Placeholders(doc string) []string {
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(doc, -1) {
		seen[m[1]] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
