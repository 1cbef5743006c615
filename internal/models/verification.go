package models

import "strings"

// OperatingStatusAuthorized is the FMCSA status of a carrier allowed to haul
const OperatingStatusAuthorized = "AUTHORIZED"

// VerificationResult is what the FMCSA verification service reports for a
// DOT number. It is consumed as given and never stored.
type VerificationResult struct {
	DOTNumber       string   `json:"dot_number"`
	Verified        bool     `json:"verified"`
	SafetyRating    string   `json:"safety_rating"`
	OperatingStatus string   `json:"operating_status"`
	Errors          []string `json:"errors,omitempty"`
}

// Authorized is true for a verified carrier with active operating authority
func (v *VerificationResult) Authorized() bool {
	return v != nil && v.Verified && strings.EqualFold(v.OperatingStatus, OperatingStatusAuthorized)
}
