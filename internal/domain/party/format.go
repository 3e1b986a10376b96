// internal/domain/party/format.go

package party

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DedupeKey normalizes a title for duplicate detection: lowercased,
// punctuation removed, truncated to 50 characters.
func DedupeKey(title string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToLower(title) {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsSpace(r) || r == '_') {
			continue
		}
		if n == 50 {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// FormatCount renders a count with Indian numbering suffixes (K, L, Cr)
func FormatCount(n int64) string {
	switch {
	case n >= 10_000_000:
		return strconv.FormatFloat(float64(n)/10_000_000, 'f', 1, 64) + "Cr"
	case n >= 100_000:
		return strconv.FormatFloat(float64(n)/100_000, 'f', 1, 64) + "L"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// TimeAgo renders the age of t relative to now, coarsest unit first
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	if days := int(diff.Hours() / 24); days > 0 {
		return fmt.Sprintf("%dd ago", days)
	}
	if hours := int(diff.Hours()); hours > 0 {
		return fmt.Sprintf("%dh ago", hours)
	}
	if minutes := int(diff.Minutes()); minutes > 0 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return "Just now"
}

// Truncate cuts s to max runes, appending "..." when something was cut
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// Clip cuts s to max runes without a marker
func Clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
