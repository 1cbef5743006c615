package models

// Metric names, as they appear in JSON payloads
const (
	MetricOnTimePickup       = "on_time_pickup"
	MetricOnTimeDelivery     = "on_time_delivery"
	MetricCommunication      = "communication"
	MetricClaimRatio         = "claim_ratio"
	MetricDocumentTimeliness = "document_timeliness"
	MetricAcceptanceRate     = "acceptance_rate"
	MetricGPSCompliance      = "gps_compliance"
)

// RawMetrics are the weekly KPI inputs as reported. A nil field means the
// metric was not reported for the period.
type RawMetrics struct {
	OnTimePickup       *float64 `json:"on_time_pickup"`
	OnTimeDelivery     *float64 `json:"on_time_delivery"`
	Communication      *float64 `json:"communication"`
	ClaimRatio         *float64 `json:"claim_ratio"`
	DocumentTimeliness *float64 `json:"document_timeliness"`
	AcceptanceRate     *float64 `json:"acceptance_rate"`
	GPSCompliance      *float64 `json:"gps_compliance"`
}

// NormalizedMetrics holds the clamped metric set. ClaimRatio keeps the clamped
// raw ratio; InvertedClaimRatio (100 - ClaimRatio) is what gets weighted.
type NormalizedMetrics struct {
	OnTimePickup       float64  `json:"on_time_pickup"`
	OnTimeDelivery     float64  `json:"on_time_delivery"`
	Communication      float64  `json:"communication"`
	ClaimRatio         float64  `json:"claim_ratio"`
	InvertedClaimRatio float64  `json:"inverted_claim_ratio"`
	DocumentTimeliness float64  `json:"document_timeliness"`
	AcceptanceRate     float64  `json:"acceptance_rate"`
	GPSCompliance      float64  `json:"gps_compliance"`
	Missing            []string `json:"missing,omitempty"`
}

// Degraded is true when any metric was missing from the raw input
func (n NormalizedMetrics) Degraded() bool {
	return len(n.Missing) > 0
}
