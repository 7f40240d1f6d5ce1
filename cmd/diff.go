package cmd

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// unifiedDiff returns the changes from before to after as a unified diff
// with three lines of context.
func unifiedDiff(name string, before, after []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

// colorize adds ANSI colors to a unified diff, line by line.
func colorize(diff string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			sb.WriteString(colorBold + body + colorReset + nl)
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(colorCyan + body + colorReset + nl)
		case strings.HasPrefix(body, "+"):
			sb.WriteString(colorGreen + body + colorReset + nl)
		case strings.HasPrefix(body, "-"):
			sb.WriteString(colorRed + body + colorReset + nl)
		default:
			sb.WriteString(line)
		}
	}
	return sb.String()
}
