package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
)

// reminderDays are the days before insurance expiry a reminder goes out
var reminderDays = map[int]bool{30: true, 15: true, 7: true, 1: true}

// SweepSummary counts what one compliance sweep found
type SweepSummary struct {
	Checked   int
	Red       int
	Amber     int
	Green     int
	Reminders int
}

// ComplianceSweep evaluates every active carrier and reminds those whose
// insurance is about to lapse
type ComplianceSweep struct {
	store    storage.Store
	gate     engine.ComplianceGate
	notifier services.Notifier
}

func NewComplianceSweep(store storage.Store, policy engine.Policy, notifier services.Notifier) *ComplianceSweep {
	return &ComplianceSweep{
		store:    store,
		gate:     engine.NewComplianceGate(policy),
		notifier: notifier,
	}
}

// RunOnce performs one sweep as of now
func (j *ComplianceSweep) RunOnce(ctx context.Context, now time.Time) (SweepSummary, error) {
	log.Println("Checking carrier compliance...")

	carriers, err := j.store.GetAllCarriers(ctx)
	if err != nil {
		return SweepSummary{}, fmt.Errorf("list carriers: %w", err)
	}

	var summary SweepSummary
	for _, carrier := range carriers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if carrier.Status == models.CarrierStatusInactive {
			continue
		}

		report := services.BuildComplianceReport(j.gate, carrier, now)
		summary.Checked++
		switch report.Status {
		case models.ComplianceRed:
			summary.Red++
		case models.ComplianceAmber:
			summary.Amber++
		default:
			summary.Green++
		}

		if report.DaysUntilExpiry == nil || !reminderDays[*report.DaysUntilExpiry] {
			continue
		}

		msg := fmt.Sprintf("Hi %s, your insurance certificate expires on %s (%d days). Upload a renewed certificate to stay eligible for loads.",
			carrier.Name, carrier.InsuranceExpiry.Format("02 Jan 2006"), *report.DaysUntilExpiry)
		if err := j.notifier.Notify(ctx, carrier.ContactPhone, msg); err != nil {
			log.Printf("Failed to send insurance reminder to %s: %v", carrier.CarrierID, err)
			continue
		}
		summary.Reminders++
	}

	log.Printf("Compliance sweep: %d checked, %d red, %d amber, %d green, %d reminders sent",
		summary.Checked, summary.Red, summary.Amber, summary.Green, summary.Reminders)
	return summary, nil
}
