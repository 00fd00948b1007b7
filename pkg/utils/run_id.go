package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a standardized, human-readable solve run ID.
// Format: {kind}-{slugged label}-{8charHexUUID}
//
// Example:
//   - Input: kind="scenario", label="Higher Fuel Cost"
//   - Output: "scenario-higher-fuel-cost-a3f8e2b1"
func GenerateRunID(kind, label string) string {
	parts := []string{kind}
	if slug := slugify(label); slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, shortUUID())
	return strings.Join(parts, "-")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func shortUUID() string {
	id := uuid.New().String()
	return strings.ReplaceAll(id, "-", "")[:8]
}
