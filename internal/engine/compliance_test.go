package engine

import (
	"testing"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComplianceGateEvaluate(t *testing.T) {
	gate := NewComplianceGate(DefaultPolicy())
	allDocs := ComplianceDocs{W9: true, InsuranceCert: true, AuthorityDoc: true}

	tests := []struct {
		name   string
		expiry *time.Time
		docs   ComplianceDocs
		want   models.ComplianceStatus
	}{
		{"no insurance on file", nil, allDocs, models.ComplianceRed},
		{"expired yesterday", daysFromNow(-1), allDocs, models.ComplianceRed},
		{"expires exactly now", daysFromNow(0), allDocs, models.ComplianceRed},
		{"expires tomorrow", daysFromNow(1), allDocs, models.ComplianceAmber},
		{"expires at the window edge", daysFromNow(30), allDocs, models.ComplianceAmber},
		{"expires after the window", daysFromNow(31), allDocs, models.ComplianceGreen},
		{"missing W-9", daysFromNow(365), ComplianceDocs{InsuranceCert: true, AuthorityDoc: true}, models.ComplianceRed},
		{"missing insurance cert", daysFromNow(365), ComplianceDocs{W9: true, AuthorityDoc: true}, models.ComplianceRed},
		{"missing authority doc", daysFromNow(365), ComplianceDocs{W9: true, InsuranceCert: true}, models.ComplianceRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Evaluate(tt.expiry, tt.docs, fixedNow))
		})
	}
}

func TestComplianceMissingInsuranceCertIsAlwaysRed(t *testing.T) {
	gate := NewComplianceGate(DefaultPolicy())
	docs := ComplianceDocs{W9: true, AuthorityDoc: true}

	for days := -400; days <= 400; days += 7 {
		assert.Equal(t, models.ComplianceRed, gate.Evaluate(daysFromNow(days), docs, fixedNow))
	}
}

func TestComplianceGateIsPureAndMonotonic(t *testing.T) {
	gate := NewComplianceGate(DefaultPolicy())
	docs := ComplianceDocs{W9: true, InsuranceCert: true, AuthorityDoc: true}
	rank := map[models.ComplianceStatus]int{models.ComplianceRed: 0, models.ComplianceAmber: 1, models.ComplianceGreen: 2}

	prev := -1
	for hours := -72; hours <= 24*60; hours += 6 {
		expiry := fixedNow.Add(time.Duration(hours) * time.Hour)
		first := gate.Evaluate(&expiry, docs, fixedNow)
		second := gate.Evaluate(&expiry, docs, fixedNow)
		assert.Equal(t, first, second)

		assert.GreaterOrEqual(t, rank[first], prev, "status went backwards at %dh", hours)
		prev = rank[first]
	}
	assert.Equal(t, 2, prev)
}

func TestComplianceMovesWithTheClock(t *testing.T) {
	gate := NewComplianceGate(DefaultPolicy())
	c := approvedCarrier("CR1", models.TierGold, "DRY_VAN")
	c.InsuranceExpiry = daysFromNow(40)

	assert.Equal(t, models.ComplianceGreen, gate.EvaluateCarrier(c, fixedNow))
	assert.Equal(t, models.ComplianceAmber, gate.EvaluateCarrier(c, fixedNow.Add(20*24*time.Hour)))
	assert.Equal(t, models.ComplianceRed, gate.EvaluateCarrier(c, fixedNow.Add(41*24*time.Hour)))
}

func TestDaysUntilExpiry(t *testing.T) {
	assert.Equal(t, 30, DaysUntilExpiry(*daysFromNow(30), fixedNow))
	assert.Equal(t, 0, DaysUntilExpiry(fixedNow.Add(5*time.Hour), fixedNow))
	assert.Equal(t, -1, DaysUntilExpiry(fixedNow.Add(-5*time.Hour), fixedNow))
}

func TestRegionForState(t *testing.T) {
	region, ok := RegionForState("il")
	assert.True(t, ok)
	assert.Equal(t, RegionMidwest, region)

	region, ok = RegionForState("TX")
	assert.True(t, ok)
	assert.Equal(t, RegionSouthwest, region)

	_, ok = RegionForState("ZZ")
	assert.False(t, ok)
	assert.Len(t, stateRegions, 51)
}
