// Package ingest is the boundary between raw store rows and the domain
// records the engines work on. Every optional or messy column is resolved
// here once, so the engines never check for missing fields themselves.
package ingest

import (
	"strings"
	"time"
	"unicode"

	"leadintel/server/config"
)

// NormalizeZip returns a 5-character zip code. ZIP+4 values keep their
// first five digits and shorter all-digit values are left-padded with zeros.
// Anything else is returned trimmed.
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	if i := strings.IndexByte(zip, '-'); i > 0 && isDigits(zip[:i]) {
		zip = zip[:i]
	}
	if !isDigits(zip) {
		return zip
	}
	if len(zip) == 9 {
		return zip[:5]
	}
	if len(zip) < 5 {
		return strings.Repeat("0", 5-len(zip)) + zip
	}
	return zip
}

// ResolveState returns the two-letter state for a listing. The explicit
// state column wins; otherwise the state token is taken from the address,
// e.g. "12 Main St, Austin, TX 78701".
func ResolveState(stateField, address string) string {
	if s := config.NormalizeState(stateField); s != "" {
		return s
	}

	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	fields := strings.Fields(parts[len(parts)-1])
	if n := len(fields); n > 1 && isDigits(fields[n-1]) {
		fields = fields[:n-1]
	}
	candidate := strings.Join(fields, " ")
	if config.IsKnownState(candidate) {
		return strings.ToUpper(candidate)
	}
	// Full state names only count in the third position, after the city.
	if j := config.GetJurisdiction(candidate); j != nil && len(parts) > 2 {
		return j.Code
	}
	return ""
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses the date formats found in the stores. Unparseable input
// yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatAddress joins the address parts into a single-spaced display string,
// e.g. "12 Main St, Lexington, MA 02420".
func FormatAddress(street, city, state, zip string) string {
	s := strings.TrimSpace(street) + ", " + strings.TrimSpace(city) + ", " + strings.TrimSpace(state) + " " + strings.TrimSpace(zip)
	return strings.Join(strings.Fields(s), " ")
}

// PhoneDigits strips everything but digits and drops a leading US country
// code, so "(617) 555-0101" and "+1 617.555.0101" compare equal.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
