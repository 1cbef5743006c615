package services

import (
	"context"
	"errors"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
)

// ErrVerifierNotConfigured is returned by the placeholder verifier
var ErrVerifierNotConfigured = errors.New("fmcsa verification not configured")

// Verifier looks up a carrier's operating authority with FMCSA
type Verifier interface {
	Verify(ctx context.Context, dotNumber string) (*models.VerificationResult, error)
}

// UnconfiguredVerifier always reports that no verification service is set up.
// Tier evaluation then proceeds without an FMCSA cap.
type UnconfiguredVerifier struct{}

func (UnconfiguredVerifier) Verify(context.Context, string) (*models.VerificationResult, error) {
	return nil, ErrVerifierNotConfigured
}

// StaticVerifier answers from a fixed table keyed by DOT number
type StaticVerifier map[string]*models.VerificationResult

func (s StaticVerifier) Verify(_ context.Context, dotNumber string) (*models.VerificationResult, error) {
	return s[dotNumber], nil
}
