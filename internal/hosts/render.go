package hosts

import (
	"strings"

	"hostsmod/pkg/models"
)

// Render writes every part followed by a single "\n"
func Render(parts []models.Part) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.Line())
		b.WriteByte('\n')
	}
	return b.String()
}

// Trim drops trailing blank lines. A file ending in "\n" parses with a
// final empty part, so trimming keeps Render from adding a blank line.
func Trim(parts []models.Part) []models.Part {
	n := len(parts)
	for n > 0 && parts[n-1].IsEmpty() {
		n--
	}
	return parts[:n]
}

// Compact collapses runs of blank lines into the first line of each run
func Compact(parts []models.Part) []models.Part {
	out := make([]models.Part, 0, len(parts))
	for i, part := range parts {
		if part.IsEmpty() && i > 0 && parts[i-1].IsEmpty() {
			continue
		}
		out = append(out, part)
	}
	return out
}
