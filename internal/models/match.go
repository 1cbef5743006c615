package models

// ComplianceStatus is the red/amber/green insurance and document standing
type ComplianceStatus string

const (
	ComplianceRed   ComplianceStatus = "RED"
	ComplianceAmber ComplianceStatus = "AMBER"
	ComplianceGreen ComplianceStatus = "GREEN"
)

// ScoreBreakdown is the per-factor point split of a match score
type ScoreBreakdown struct {
	Equipment    int `json:"equipment"`
	Region       int `json:"region"`
	Performance  int `json:"performance"`
	Compliance   int `json:"compliance"`
	Tier         int `json:"tier"`
	SourceBonus  int `json:"source_bonus"`
	Availability int `json:"availability"`
}

// Total sums every factor
func (b ScoreBreakdown) Total() int {
	return b.Equipment + b.Region + b.Performance + b.Compliance + b.Tier + b.SourceBonus + b.Availability
}

// MatchResult is one ranked candidate for a load. It is never persisted.
type MatchResult struct {
	CarrierID        string           `json:"carrier_id"`
	CarrierName      string           `json:"carrier_name"`
	Tier             Tier             `json:"tier"`
	Breakdown        ScoreBreakdown   `json:"breakdown"`
	MatchScore       int              `json:"match_score"`
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	EquipmentMatch   bool             `json:"equipment_match"`
}

// MatchResponse is what the dispatch workflow receives
type MatchResponse struct {
	LoadID         string        `json:"load_id"`
	Matches        []MatchResult `json:"matches"`
	SuggestDAT     bool          `json:"suggest_dat"`
	Fallback       bool          `json:"fallback"`
	CandidateCount int           `json:"candidate_count"`
}
