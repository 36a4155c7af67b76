// Package htmltext extracts plain-text values from semi-structured HTML
// fragments, such as the cells of a vendor-generated battery report.
package htmltext

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	nonNumericRe = regexp.MustCompile(`[^\d,.]`)
)

// Normalize strips markup tags, decodes HTML entities and collapses runs of
// whitespace into single spaces.
func Normalize(fragment string) string {
	text := tagRe.ReplaceAllString(fragment, "")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// ExtractInt pulls the integer value out of a text cell like "57,999 mWh".
// Thousands separators are dropped and a decimal part is truncated. Returns
// 0 when no digits are present.
func ExtractInt(text string) int {
	digits := nonNumericRe.ReplaceAllString(text, "")
	digits = strings.ReplaceAll(digits, ",", "")
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		digits = digits[:i]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
