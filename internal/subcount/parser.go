// Package subcount parses free-text subscriber counts as YouTube renders
// them in channel headers, e.g. "1.5万人の登録者" or "1.2K subscribers".
package subcount

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the first numeric token and an optional unit suffix.
// The unit set covers the Japanese 万/千 abbreviations alongside metric K/M.
var numberPattern = regexp.MustCompile(`([\d][\d,]*(?:\.\d+)?)\s*([万千KkMm])?`)

// Parse converts a human-readable subscriber string into an integer count.
// The second return value is false when no numeric token is present, which
// callers treat as "count unavailable". Parse never panics on malformed input.
func Parse(text string) (int64, bool) {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "万":
		num *= 10000
	case "千", "K", "k":
		num *= 1000
	case "M", "m":
		num *= 1000000
	}

	return int64(num), true
}
