package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
)

var (
	ErrInvalidMetric = errors.New("invalid metric value")
	ErrInvalidPeriod = errors.New("invalid period")
)

const maxPeriodLength = 32

// NormalizeMetrics clamps the raw weekly inputs into the canonical metric set.
// Missing inputs count as 0 and are listed in Missing (degraded-score policy).
func NormalizeMetrics(raw models.RawMetrics) (models.NormalizedMetrics, error) {
	var n models.NormalizedMetrics

	fields := []struct {
		name string
		in   *float64
		out  *float64
	}{
		{models.MetricOnTimePickup, raw.OnTimePickup, &n.OnTimePickup},
		{models.MetricOnTimeDelivery, raw.OnTimeDelivery, &n.OnTimeDelivery},
		{models.MetricCommunication, raw.Communication, &n.Communication},
		{models.MetricClaimRatio, raw.ClaimRatio, &n.ClaimRatio},
		{models.MetricDocumentTimeliness, raw.DocumentTimeliness, &n.DocumentTimeliness},
		{models.MetricAcceptanceRate, raw.AcceptanceRate, &n.AcceptanceRate},
		{models.MetricGPSCompliance, raw.GPSCompliance, &n.GPSCompliance},
	}

	for _, f := range fields {
		if f.in == nil {
			n.Missing = append(n.Missing, f.name)
			continue
		}
		v := *f.in
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.NormalizedMetrics{}, fmt.Errorf("%w: %s is not a finite number", ErrInvalidMetric, f.name)
		}
		*f.out = clampPercent(v)
	}

	// A missing claim ratio counts as 0 like every other metric, so the
	// inverted value stays at 0 instead of awarding a perfect claim record.
	if raw.ClaimRatio != nil {
		n.InvertedClaimRatio = 100 - n.ClaimRatio
	}

	return n, nil
}

// ValidatePeriod checks the period identifier, e.g. "2026-W41"
func ValidatePeriod(period string) (string, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return "", fmt.Errorf("%w: period is required", ErrInvalidPeriod)
	}
	if len(period) > maxPeriodLength {
		return "", fmt.Errorf("%w: period longer than %d characters", ErrInvalidPeriod, maxPeriodLength)
	}
	return period, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
