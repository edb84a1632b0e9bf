package config

import "strings"

// Jurisdiction is a US state or territory the lead data can belong to
type Jurisdiction struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedJurisdictions lists every state code the stores use
var SupportedJurisdictions = []Jurisdiction{
	{Code: "AL", Name: "Alabama"}, {Code: "AK", Name: "Alaska"}, {Code: "AZ", Name: "Arizona"},
	{Code: "AR", Name: "Arkansas"}, {Code: "CA", Name: "California"}, {Code: "CO", Name: "Colorado"},
	{Code: "CT", Name: "Connecticut"}, {Code: "DE", Name: "Delaware"}, {Code: "DC", Name: "District of Columbia"},
	{Code: "FL", Name: "Florida"}, {Code: "GA", Name: "Georgia"}, {Code: "HI", Name: "Hawaii"},
	{Code: "ID", Name: "Idaho"}, {Code: "IL", Name: "Illinois"}, {Code: "IN", Name: "Indiana"},
	{Code: "IA", Name: "Iowa"}, {Code: "KS", Name: "Kansas"}, {Code: "KY", Name: "Kentucky"},
	{Code: "LA", Name: "Louisiana"}, {Code: "ME", Name: "Maine"}, {Code: "MD", Name: "Maryland"},
	{Code: "MA", Name: "Massachusetts"}, {Code: "MI", Name: "Michigan"}, {Code: "MN", Name: "Minnesota"},
	{Code: "MS", Name: "Mississippi"}, {Code: "MO", Name: "Missouri"}, {Code: "MT", Name: "Montana"},
	{Code: "NE", Name: "Nebraska"}, {Code: "NV", Name: "Nevada"}, {Code: "NH", Name: "New Hampshire"},
	{Code: "NJ", Name: "New Jersey"}, {Code: "NM", Name: "New Mexico"}, {Code: "NY", Name: "New York"},
	{Code: "NC", Name: "North Carolina"}, {Code: "ND", Name: "North Dakota"}, {Code: "OH", Name: "Ohio"},
	{Code: "OK", Name: "Oklahoma"}, {Code: "OR", Name: "Oregon"}, {Code: "PA", Name: "Pennsylvania"},
	{Code: "PR", Name: "Puerto Rico"}, {Code: "RI", Name: "Rhode Island"}, {Code: "SC", Name: "South Carolina"},
	{Code: "SD", Name: "South Dakota"}, {Code: "TN", Name: "Tennessee"}, {Code: "TX", Name: "Texas"},
	{Code: "UT", Name: "Utah"}, {Code: "VT", Name: "Vermont"}, {Code: "VA", Name: "Virginia"},
	{Code: "WA", Name: "Washington"}, {Code: "WV", Name: "West Virginia"}, {Code: "WI", Name: "Wisconsin"},
	{Code: "WY", Name: "Wyoming"},
}

// NormalizeState returns the two-letter code for a state code or name.
// Unknown input is returned trimmed and upper-cased.
func NormalizeState(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if j := GetJurisdiction(s); j != nil {
		return j.Code
	}
	return strings.ToUpper(s)
}

// GetJurisdiction looks a state up by code or full name, case-insensitively
func GetJurisdiction(s string) *Jurisdiction {
	s = strings.TrimSpace(s)
	for i := range SupportedJurisdictions {
		j := &SupportedJurisdictions[i]
		if strings.EqualFold(j.Code, s) || strings.EqualFold(j.Name, s) {
			return j
		}
	}
	return nil
}

// IsKnownState reports whether code is one of the supported state codes
func IsKnownState(code string) bool {
	j := GetJurisdiction(code)
	return j != nil && j.Code == strings.ToUpper(strings.TrimSpace(code))
}
