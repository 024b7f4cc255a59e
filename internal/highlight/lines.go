package highlight

import (
	"regexp"
	"strconv"
	"strings"
)

var linesRE = regexp.MustCompile(`{(.+)}`)

// ParseLineOptions reads the line ranges from a fence info attribute such
// as "{4, 5-8}". It returns nil when attrs carries no braces. Numbers that
// do not parse are skipped, as are reversed ranges like "5-3".
func ParseLineOptions(attrs string) []int {
	m := linesRE.FindStringSubmatch(attrs)
	if m == nil {
		return nil
	}

	var lines []int
	for _, part := range strings.Split(m[1], ",") {
		bounds := strings.SplitN(part, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil || start <= 0 {
			continue
		}
		if len(bounds) == 2 {
			end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				lines = append(lines, start)
				continue
			}
			// a reversed range selects nothing
			for l := start; l <= end; l++ {
				lines = append(lines, l)
			}
			continue
		}
		lines = append(lines, start)
	}
	return lines
}
