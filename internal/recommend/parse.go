package recommend

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)`)
	firstInteger  = regexp.MustCompile(`\d+`)
)

// defaultLatencyMs is used when a latency string carries no number.
const defaultLatencyMs = 50

// ParseMemoryGB converts a memory string such as "16 GB", "512 MB" or "8gb"
// into gigabytes. A number without a unit is read as gigabytes; strings
// without a number yield 0.
func ParseMemoryGB(s string) float64 {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "mb"):
		return leadingFloat(lower) / 1024
	}
	return leadingFloat(lower)
}

// ParseLatencyMs returns the first integer in a latency string, e.g. 45 for
// "~45ms/token", or 50 when there is none.
func ParseLatencyMs(s string) int {
	m := firstInteger.FindString(s)
	if m == "" {
		return defaultLatencyMs
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return defaultLatencyMs
	}
	return n
}

// ParseParameterCount reads display strings like "7B", "1.5B" or "335M".
func ParseParameterCount(s string) float64 {
	lower := strings.ToLower(strings.TrimSpace(s))
	n := leadingFloat(lower)
	switch {
	case strings.HasSuffix(lower, "b"):
		return n * 1e9
	case strings.HasSuffix(lower, "m"):
		return n * 1e6
	case strings.HasSuffix(lower, "k"):
		return n * 1e3
	}
	return n
}

func leadingFloat(s string) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0
	}
	return f
}

// IsPermissive reports whether a license string names MIT or Apache terms.
func IsPermissive(license string) bool {
	lower := strings.ToLower(license)
	return strings.Contains(lower, "mit") || strings.Contains(lower, "apache")
}
