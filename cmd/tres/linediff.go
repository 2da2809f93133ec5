package main

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// lineDiff returns the lines of b that differ from a, prefixed by "-"
// for removed and "+" for added lines.  It is empty when a == b.
func lineDiff(a, b string) string {
	dmp := diffpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)
	sb := &strings.Builder{}
	for i := range diffs {
		d := &diffs[i]
		prefix := ""
		switch d.Type {
		case diffpatch.DiffEqual:
			continue
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
