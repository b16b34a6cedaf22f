package autorun

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/core-tools/hsu-autorun/pkg/errors"
)

const (
	PlaceholderSupervisorDaemonPath = "supervisor_daemon_path"
	PlaceholderSupervisorPid        = "supervisor_pid"
	PlaceholderCurrentInstance      = "current_instance"
)

//go:embed template/autorun.sh.in
var defaultTemplate string

// DefaultTemplate returns the launcher template shipped with the binary
func DefaultTemplate() string {
	return defaultTemplate
}

// Groups: escaped "$$", named "$name", braced "${name}", and an empty
// alternative that catches any other use of "$".
var placeholderPattern = regexp.MustCompile(`(?i)\$(?:(\$)|([_a-z][_a-z0-9]*)|\{([_a-z][_a-z0-9]*)\}|)`)

// Substitute replaces $name and ${name} placeholders with values. "$$" is
// an escaped dollar sign. Every key of values must occur in text, and text
// must not reference names that values does not define.
func Substitute(text string, values map[string]string) (string, error) {
	var out strings.Builder
	seen := make(map[string]bool, len(values))
	last := 0

	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		out.WriteString(text[last:m[0]])
		last = m[1]

		var name string
		switch {
		case m[2] >= 0:
			out.WriteByte('$')
			continue
		case m[4] >= 0:
			name = text[m[4]:m[5]]
		case m[6] >= 0:
			name = text[m[6]:m[7]]
		default:
			line, col := position(text, m[0])
			return "", errors.NewTemplateSubstitutionError(
				fmt.Sprintf("invalid placeholder in template: line %d, col %d", line, col),
				nil,
			).WithContext("line", line).WithContext("column", col)
		}

		value, ok := values[name]
		if !ok {
			return "", errors.NewTemplateSubstitutionError(
				fmt.Sprintf("unknown placeholder in template: %s", name),
				nil,
			).WithContext("placeholder", name)
		}
		seen[name] = true
		out.WriteString(value)
	}
	out.WriteString(text[last:])

	var missing []string
	for name := range values {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", errors.NewTemplateSubstitutionError(
			fmt.Sprintf("required placeholders missing from template: %s", strings.Join(missing, ", ")),
			nil,
		).WithContext("missing", missing)
	}

	return out.String(), nil
}

func position(text string, offset int) (line, col int) {
	prefix := text[:offset]
	line = strings.Count(prefix, "\n") + 1
	col = offset - strings.LastIndex(prefix, "\n")
	return line, col
}
