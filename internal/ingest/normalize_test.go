package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Already five digits", input: "02420", expected: "02420"},
		{name: "Leading zero lost", input: "2420", expected: "02420"},
		{name: "Two leading zeros lost", input: "601", expected: "00601"},
		{name: "Padded with spaces", input: " 78701 ", expected: "78701"},
		{name: "ZIP+4 with dash", input: "02420-1234", expected: "02420"},
		{name: "ZIP+4 without dash", input: "024201234", expected: "02420"},
		{name: "Empty", input: "", expected: ""},
		{name: "Non numeric", input: "K1A 0B1", expected: "K1A 0B1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeZip(tt.input)
			assert.Equal(t, tt.expected, result,
				"NormalizeZip(%q) = %q, want %q", tt.input, result, tt.expected)
		})
	}
}

func TestResolveState(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		address  string
		expected string
	}{
		{name: "State column wins", state: "ma", address: "1 Elm St, Austin, TX 78701", expected: "MA"},
		{name: "State name column", state: "Texas", address: "", expected: "TX"},
		{name: "Code with zip in address", address: "1 Elm St, Austin, TX 78701", expected: "TX"},
		{name: "Code at end of address", address: "1 Elm St, Austin, TX", expected: "TX"},
		{name: "Full name in third part", address: "1 Elm St, Austin, Texas 78701", expected: "TX"},
		{name: "City named like a state", address: "1 Elm St, Washington", expected: ""},
		{name: "No commas", address: "1 Elm St Austin TX", expected: ""},
		{name: "Empty", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveState(tt.state, tt.address))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{name: "Date only", input: "2024-03-15", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "RFC3339", input: "2024-03-15T10:30:00Z", expected: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{name: "Timestamp without zone", input: "2024-03-15 10:30:00", expected: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{name: "Not available", input: "N/A", expected: time.Time{}},
		{name: "Empty", input: "", expected: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(ParseDate(tt.input)), "ParseDate(%q)", tt.input)
		})
	}
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "12 Main St, Lexington, MA 02420", FormatAddress(" 12 Main St ", "Lexington", "MA", "02420"))
	assert.Equal(t, ", , MA", FormatAddress("", "", "MA", ""))
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "6175550101", PhoneDigits("(617) 555-0101"))
	assert.Equal(t, "6175550101", PhoneDigits("+1 617.555.0101"))
	assert.Equal(t, "", PhoneDigits("n/a"))
}
